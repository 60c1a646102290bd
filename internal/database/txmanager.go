package database

import (
	"context"
	"database/sql"
	"errors"
)

// txKey is a context key type for storing transaction connections.
type txKey struct{}

// Querier represents a query executor (either *sql.DB or a transaction).
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager manages write transactions.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// sqliteTxManager implements TxManager for SQLite.
type sqliteTxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager for the given database.
func NewTxManager(db *sql.DB) TxManager {
	return &sqliteTxManager{db: db}
}

// WithTx executes the function within an immediate write transaction.
//
// SQLite upgrades deferred transactions to write locks lazily, which can
// surface SQLITE_BUSY at commit time. BEGIN IMMEDIATE takes the write lock
// up front, so concurrent writers serialize at acquisition instead.
func (m *sqliteTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txKey{}, conn)

	if err := fn(ctx); err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	_, err = conn.ExecContext(ctx, "COMMIT")
	return err
}

// GetTx retrieves the transaction connection from context, or returns the
// plain DB handle for non-transactional calls.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if conn, ok := ctx.Value(txKey{}).(*sql.Conn); ok {
		return conn
	}
	return db
}
