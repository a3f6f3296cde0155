package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxRecent = 10

// Session remembers which game the terminal is playing.
type Session struct {
	PlayerID    string    `json:"player_id"`
	CharacterID string    `json:"character_id"`
	Difficulty  string    `json:"difficulty"`
	UsedAt      time.Time `json:"used_at"`
}

type sessionFile struct {
	Current *Session  `json:"current,omitempty"`
	Recent  []Session `json:"recent"`
}

// HomeDir is where the client keeps local state. TYCOON_HOME overrides
// the default of ~/.tycoon.
func HomeDir() (string, error) {
	dir := strings.TrimSpace(os.Getenv("TYCOON_HOME"))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".tycoon")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func sessionPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func readSessionFile() (sessionFile, string, error) {
	path, err := sessionPath()
	if err != nil {
		return sessionFile{}, "", err
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return sessionFile{}, path, nil
	}
	if err != nil {
		return sessionFile{}, path, err
	}
	var f sessionFile
	if err := json.Unmarshal(body, &f); err != nil {
		return sessionFile{}, path, fmt.Errorf("read session: %w", err)
	}
	return f, path, nil
}

func writeSessionFile(path string, f sessionFile) error {
	body, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SaveSession makes s the current game and moves it to the front of the
// recent list.
func SaveSession(s Session) error {
	if strings.TrimSpace(s.PlayerID) == "" {
		return fmt.Errorf("session needs a player id")
	}
	f, path, err := readSessionFile()
	if err != nil {
		return err
	}
	if s.UsedAt.IsZero() {
		s.UsedAt = time.Now().UTC()
	}
	recent := []Session{s}
	for _, r := range f.Recent {
		if r.PlayerID != s.PlayerID && len(recent) < maxRecent {
			recent = append(recent, r)
		}
	}
	f.Current, f.Recent = &s, recent
	return writeSessionFile(path, f)
}

func LoadSession() (Session, error) {
	f, _, err := readSessionFile()
	if err != nil {
		return Session{}, err
	}
	if f.Current == nil || strings.TrimSpace(f.Current.PlayerID) == "" {
		return Session{}, fmt.Errorf("no active game in session")
	}
	return *f.Current, nil
}

// RecentSessions lists remembered games, most recently used first.
func RecentSessions() ([]Session, error) {
	f, _, err := readSessionFile()
	if err != nil {
		return nil, err
	}
	return f.Recent, nil
}

// SwitchSession makes a remembered game current again.
func SwitchSession(playerID string) (Session, error) {
	recent, err := RecentSessions()
	if err != nil {
		return Session{}, err
	}
	for _, r := range recent {
		if r.PlayerID == playerID {
			r.UsedAt = time.Time{}
			return r, SaveSession(r)
		}
	}
	return Session{}, fmt.Errorf("no remembered game %q", playerID)
}

// ClearSession forgets the current game but keeps the recent list.
func ClearSession() error {
	f, path, err := readSessionFile()
	if err != nil {
		return err
	}
	if f.Current == nil {
		return nil
	}
	f.Current = nil
	return writeSessionFile(path, f)
}
