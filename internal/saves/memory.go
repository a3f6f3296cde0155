package saves

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]Record{}}
}

func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	if !ValidSlotID(rec.SlotID) {
		return ErrInvalidSlot
	}
	rec.State = bytes.Clone(rec.State)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[rec.SlotID] = rec
	return nil
}

func (m *MemoryStore) Load(_ context.Context, slotID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.slots[slotID]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.State = bytes.Clone(rec.State)
	return rec, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Summary, 0, len(m.slots))
	for _, rec := range m.slots {
		out = append(out, rec.Summary)
	}
	sortSummaries(out)
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slotID]; !ok {
		return ErrNotFound
	}
	delete(m.slots, slotID)
	return nil
}

func (m *MemoryStore) Rename(_ context.Context, slotID, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.slots[slotID]
	if !ok {
		return ErrNotFound
	}
	rec.Label = label
	rec.Summary.Label = label
	rec.UpdatedAt = time.Now().UTC()
	rec.Summary.UpdatedAt = rec.UpdatedAt
	m.slots[slotID] = rec
	return nil
}

// sortSummaries orders newest first, then by slot id.
func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].UpdatedAt.Equal(s[j].UpdatedAt) {
			return s[i].UpdatedAt.After(s[j].UpdatedAt)
		}
		return s[i].SlotID < s[j].SlotID
	})
}
