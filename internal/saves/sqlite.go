package saves

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps slots in a single-file database for local play.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps SQLITE_BUSY out of concurrent autosaves
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS save_slots (
		slot_id    TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		state      TEXT NOT NULL,
		summary    TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	if !ValidSlotID(rec.SlotID) {
		return ErrInvalidSlot
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO save_slots (slot_id, label, state, summary, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot_id) DO UPDATE SET
			label = excluded.label,
			state = excluded.state,
			summary = excluded.summary,
			updated_at = excluded.updated_at`,
		rec.SlotID, rec.Label, string(rec.State), string(summary), rec.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save slot %s: %w", rec.SlotID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, slotID string) (Record, error) {
	var (
		rec     Record
		state   string
		summary string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT slot_id, label, state, summary, updated_at FROM save_slots WHERE slot_id = ?`, slotID).
		Scan(&rec.SlotID, &rec.Label, &state, &summary, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load slot %s: %w", slotID, err)
	}
	if err := json.Unmarshal([]byte(summary), &rec.Summary); err != nil {
		return Record{}, fmt.Errorf("%w: slot %s summary: %v", ErrCorrupt, slotID, err)
	}
	rec.State = json.RawMessage(state)
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot_id, summary FROM save_slots`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var sum Summary
		if err := json.Unmarshal([]byte(raw), &sum); err != nil {
			continue
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, slotID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot_id = ?`, slotID)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slotID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Rename(ctx context.Context, slotID, label string) error {
	rec, err := s.Load(ctx, slotID)
	if err != nil {
		return err
	}
	rec.Label = label
	rec.Summary.Label = label
	rec.UpdatedAt = time.Now().UTC()
	rec.Summary.UpdatedAt = rec.UpdatedAt
	return s.Save(ctx, rec)
}
