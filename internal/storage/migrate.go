package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func MigrateUp(ctx context.Context, db *sql.DB) error {
	return applyMigrations(ctx, db, ".up.sql", false)
}

// MigrateDown applies down migrations newest first.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	return applyMigrations(ctx, db, ".down.sql", true)
}

func applyMigrations(ctx context.Context, db *sql.DB, suffix string, reverse bool) error {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("storage: glob migrations: %w", err)
	}
	sort.Strings(entries)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	}
	for _, name := range entries {
		body, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("storage: read migration %s: %w", name, readErr)
		}
		if _, execErr := db.ExecContext(ctx, string(body)); execErr != nil {
			return fmt.Errorf("storage: apply migration %s: %w", name, execErr)
		}
	}
	return nil
}
