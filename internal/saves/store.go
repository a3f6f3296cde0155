package saves

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotFound    = errors.New("save slot not found")
	ErrInvalidSlot = errors.New("invalid save slot id")
	ErrCorrupt     = errors.New("save data is corrupt")
)

// Summary is what a save list shows without decoding the whole state.
type Summary struct {
	SlotID      string    `json:"slotId"`
	Label       string    `json:"label"`
	PlayerID    string    `json:"playerId"`
	CharacterID string    `json:"characterId"`
	Difficulty  string    `json:"difficulty"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Cash        int64     `json:"cash"`
	NetWorth    int64     `json:"netWorth"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Record is one stored slot. State holds the GameState JSON as written.
type Record struct {
	SlotID    string          `json:"slotId"`
	Label     string          `json:"label"`
	State     json.RawMessage `json:"state"`
	Summary   Summary         `json:"summary"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is a backend for save slots. Implementations return ErrNotFound
// for missing slots and may be shared between goroutines.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, slotID string) (Record, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, slotID string) error
	Rename(ctx context.Context, slotID, label string) error
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidSlotID reports whether id is safe to use as a file name and key.
func ValidSlotID(id string) bool {
	return slotPattern.MatchString(id)
}
