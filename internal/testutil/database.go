// Package testutil provides testing utilities for database-backed tests.
//
// Database Setup:
//
//	db := testutil.SetupDB(t)
//
// Each call opens a fresh in-memory SQLite database and applies the bundled
// migrations, so tests are isolated without cross-test cleanup.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/allisson/leasehold/internal/database"
)

// SetupDB opens an in-memory SQLite database with migrations applied.
// The database is closed automatically when the test finishes.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open sqlite database")
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err, "failed to configure sqlite database")

	require.NoError(t, database.ApplyMigrations(db), "failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
