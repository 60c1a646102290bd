package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTxTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Connect(Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	return count
}

func TestNewTxManager(t *testing.T) {
	db := setupTxTestDB(t)

	txManager := NewTxManager(db)
	assert.NotNil(t, txManager)
	assert.IsType(t, &sqliteTxManager{}, txManager)
}

func TestWithTx_Success(t *testing.T) {
	db := setupTxTestDB(t)
	txManager := NewTxManager(db)
	ctx := context.Background()

	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := GetTx(ctx, db)
		assert.IsType(t, &sql.Conn{}, querier)

		_, err := querier.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "kept")
		return err
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestWithTx_TransactionOpenOnEntry(t *testing.T) {
	db := setupTxTestDB(t)
	txManager := NewTxManager(db)
	ctx := context.Background()

	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := GetTx(ctx, db)

		// The write transaction is already held when the callback starts.
		_, err := querier.ExecContext(ctx, "BEGIN IMMEDIATE")
		assert.ErrorContains(t, err, "within a transaction")

		_, err = querier.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "locked")
		return err
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTxTestDB(t)
	txManager := NewTxManager(db)
	ctx := context.Background()

	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := GetTx(ctx, db)
		if _, err := querier.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "discarded"); err != nil {
			return err
		}
		return assert.AnError
	})

	assert.Equal(t, assert.AnError, err)
	assert.Equal(t, 0, countItems(t, db))
}

func TestGetTx_WithoutTransaction(t *testing.T) {
	db := setupTxTestDB(t)

	querier := GetTx(context.Background(), db)
	assert.Equal(t, db, querier)
}
