package saves

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tycoon/internal/game"
)

// Manager is the save boundary the game host talks to. It never returns
// errors: failures are logged and reported as nil, false or empty.
type Manager struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// AutosaveSlot is the slot used for a player's periodic autosave.
func AutosaveSlot(playerID string) string {
	return "autosave-" + playerID
}

func summarize(slotID, label string, st game.GameState, at time.Time) Summary {
	return Summary{
		SlotID:      slotID,
		Label:       label,
		PlayerID:    st.PlayerID,
		CharacterID: st.CharacterID,
		Difficulty:  st.Difficulty,
		Month:       st.Month,
		Year:        st.Year,
		Cash:        st.Cash,
		NetWorth:    game.CalculateNetWorth(st),
		UpdatedAt:   at,
	}
}

func (m *Manager) Save(ctx context.Context, st game.GameState, slotID, label string) bool {
	if !ValidSlotID(slotID) {
		m.log.Warn("save rejected", "slot", slotID, "error", ErrInvalidSlot)
		return false
	}
	raw, err := json.Marshal(st)
	if err != nil {
		m.log.Error("encode save", "slot", slotID, "error", err)
		return false
	}
	now := m.now()
	rec := Record{
		SlotID:    slotID,
		Label:     label,
		State:     raw,
		Summary:   summarize(slotID, label, st, now),
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Error("save failed", "slot", slotID, "error", err)
		return false
	}
	return true
}

// Load returns nil for a missing or corrupt slot.
func (m *Manager) Load(ctx context.Context, slotID string) *game.GameState {
	rec, err := m.store.Load(ctx, slotID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Error("load failed", "slot", slotID, "error", err)
		}
		return nil
	}
	st, err := DecodeStored(rec.State)
	if err != nil {
		m.log.Warn("corrupted save slot", "slot", slotID, "error", err)
		return nil
	}
	return &st
}

func (m *Manager) ListSummaries(ctx context.Context) []Summary {
	list, err := m.store.List(ctx)
	if err != nil {
		m.log.Error("list saves failed", "error", err)
		return []Summary{}
	}
	return list
}

func (m *Manager) Delete(ctx context.Context, slotID string) bool {
	if err := m.store.Delete(ctx, slotID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Error("delete save failed", "slot", slotID, "error", err)
		}
		return false
	}
	return true
}

func (m *Manager) Rename(ctx context.Context, slotID, label string) bool {
	if err := m.store.Rename(ctx, slotID, label); err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Error("rename save failed", "slot", slotID, "error", err)
		}
		return false
	}
	return true
}

// Export returns the slot as a tycoon1 string, or "" if it cannot be read.
func (m *Manager) Export(ctx context.Context, slotID string) string {
	rec, err := m.store.Load(ctx, slotID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Error("export failed", "slot", slotID, "error", err)
		}
		return ""
	}
	st, err := DecodeStored(rec.State)
	if err != nil {
		m.log.Warn("corrupted save slot", "slot", slotID, "error", err)
		return ""
	}
	out, err := Encode(st, rec.Label, rec.UpdatedAt)
	if err != nil {
		m.log.Error("export encode failed", "slot", slotID, "error", err)
		return ""
	}
	return out
}

// Import decodes an export string into slotID. An empty label keeps the
// label carried in the payload.
func (m *Manager) Import(ctx context.Context, payload, slotID, label string) bool {
	st, carried, err := Decode(payload)
	if err != nil {
		m.log.Warn("import rejected", "slot", slotID, "error", err)
		return false
	}
	if label == "" {
		label = carried
	}
	return m.Save(ctx, st, slotID, label)
}

// SaveAll writes each state to its player's autosave slot and returns how
// many succeeded.
func (m *Manager) SaveAll(ctx context.Context, states []game.GameState) int {
	n := 0
	for _, st := range states {
		if m.Save(ctx, st, AutosaveSlot(st.PlayerID), "Autosave") {
			n++
		}
	}
	return n
}
