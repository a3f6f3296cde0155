package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS game`,
	`CREATE TABLE IF NOT EXISTS game.save_slots (
		slot_id    TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		state      JSONB NOT NULL,
		summary    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS save_slots_updated_at_idx ON game.save_slots (updated_at DESC)`,
}

// Migrate creates the save tables. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
