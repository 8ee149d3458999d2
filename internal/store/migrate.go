package store

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/streamcatalog/db"
)

// Migrate applies every embedded *.up.sql file in lexical order. The files
// are written to be re-runnable.
func (s *Store) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, s.pool, s.logger)
}

// ApplyMigrations runs the embedded migrations against pool.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	names, err := fs.Glob(db.Migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no migration files found")
	}
	sort.Strings(names)
	for _, name := range names {
		payload, err := fs.ReadFile(db.Migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(payload)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.Info("store: migration applied", slog.String("file", strings.TrimPrefix(name, "migrations/")))
	}
	return nil
}
