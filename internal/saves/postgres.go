package saves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps slots in game.save_slots. The table is created by
// db.Migrate.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if !ValidSlotID(rec.SlotID) {
		return ErrInvalidSlot
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		INSERT INTO game.save_slots (slot_id, label, state, summary, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slot_id) DO UPDATE SET
			label = EXCLUDED.label,
			state = EXCLUDED.state,
			summary = EXCLUDED.summary,
			updated_at = EXCLUDED.updated_at
	`, rec.SlotID, rec.Label, []byte(rec.State), summary, rec.UpdatedAt); err != nil {
		return fmt.Errorf("save slot %s: %w", rec.SlotID, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, slotID string) (Record, error) {
	var (
		rec     Record
		state   []byte
		summary []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT slot_id, label, state, summary, updated_at
		FROM game.save_slots
		WHERE slot_id = $1
	`, slotID).Scan(&rec.SlotID, &rec.Label, &state, &summary, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load slot %s: %w", slotID, err)
	}
	if err := json.Unmarshal(summary, &rec.Summary); err != nil {
		return Record{}, fmt.Errorf("%w: slot %s summary: %v", ErrCorrupt, slotID, err)
	}
	rec.State = state
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.Query(ctx, `SELECT summary FROM game.save_slots ORDER BY updated_at DESC, slot_id`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sum Summary
		if err := json.Unmarshal(raw, &sum); err != nil {
			continue
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, slotID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM game.save_slots WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slotID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Rename(ctx context.Context, slotID, label string) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE game.save_slots
		SET label = $2,
			summary = jsonb_set(jsonb_set(summary, '{label}', to_jsonb($2::text)), '{updatedAt}', to_jsonb($3::timestamptz)),
			updated_at = $3
		WHERE slot_id = $1
	`, slotID, label, now)
	if err != nil {
		return fmt.Errorf("rename slot %s: %w", slotID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
