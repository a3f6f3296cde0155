package saves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore keeps one JSON file per slot under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultSaveDir is ~/.tycoon/saves.
func DefaultSaveDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tycoon", "saves"), nil
}

func (f *FileStore) path(slotID string) string {
	return filepath.Join(f.dir, slotID+".json")
}

func (f *FileStore) Save(_ context.Context, rec Record) error {
	if !ValidSlotID(rec.SlotID) {
		return ErrInvalidSlot
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(rec)
}

// write replaces the slot file atomically via a temp file and rename.
func (f *FileStore) write(rec Record) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, rec.SlotID+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(rec.SlotID))
}

func (f *FileStore) read(slotID string) (Record, error) {
	if !ValidSlotID(slotID) {
		return Record{}, ErrNotFound
	}
	raw, err := os.ReadFile(f.path(slotID))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: slot %s: %v", ErrCorrupt, slotID, err)
	}
	return rec, nil
}

func (f *FileStore) Load(_ context.Context, slotID string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(slotID)
}

// List skips files that do not decode; the manager reports them when they
// are loaded.
func (f *FileStore) List(_ context.Context) ([]Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := f.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, rec.Summary)
	}
	sortSummaries(out)
	return out, nil
}

func (f *FileStore) Delete(_ context.Context, slotID string) error {
	if !ValidSlotID(slotID) {
		return ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(slotID))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (f *FileStore) Rename(_ context.Context, slotID, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read(slotID)
	if err != nil {
		return err
	}
	rec.Label = label
	rec.Summary.Label = label
	rec.UpdatedAt = time.Now().UTC()
	rec.Summary.UpdatedAt = rec.UpdatedAt
	return f.write(rec)
}
