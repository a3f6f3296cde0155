package saves

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tycoon/internal/db"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	DatabaseURL string
}

// Open builds the store named by opts.Backend. The returned close func is
// never nil.
func Open(ctx context.Context, opts Options) (Store, func(), error) {
	noop := func() {}
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultSaveDir()
			if err != nil {
				return nil, noop, err
			}
			dir = d
		}
		s, err := NewFileStore(dir)
		return s, noop, err
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			dir, err := DefaultSaveDir()
			if err != nil {
				return nil, noop, err
			}
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, noop, err
			}
			path = filepath.Join(dir, "saves.db")
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required for the postgres save backend")
		}
		pool, err := db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown save backend %q", opts.Backend)
	}
}
