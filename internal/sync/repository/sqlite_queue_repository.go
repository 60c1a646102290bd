// Package repository provides data persistence implementations for sync queue items.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/leasehold/internal/database"
	apperrors "github.com/allisson/leasehold/internal/errors"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// ErrQueueItemNotFound indicates the requested queue item does not exist.
var ErrQueueItemNotFound = apperrors.Wrap(apperrors.ErrNotFound, "queue item")

// SQLiteQueueRepository implements QueueItem persistence for SQLite.
// Uses transaction support via database.GetTx(). Timestamps are stored as
// UTC unix milliseconds.
type SQLiteQueueRepository struct {
	db *sql.DB
}

// NewSQLiteQueueRepository creates a new SQLiteQueueRepository.
func NewSQLiteQueueRepository(db *sql.DB) *SQLiteQueueRepository {
	return &SQLiteQueueRepository{db: db}
}

// Create inserts a new QueueItem.
func (r *SQLiteQueueRepository) Create(ctx context.Context, item *syncDomain.QueueItem) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO queue_items (id, action, status, attempts, last_error, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		item.ID.String(),
		item.Action,
		item.Status,
		item.Attempts,
		item.LastError,
		item.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create queue item")
	}
	return nil
}

// FirstPending returns the oldest pending item, or nil when the queue has
// no pending work. IDs are time-ordered, so they break ties between items
// created in the same millisecond.
func (r *SQLiteQueueRepository) FirstPending(ctx context.Context) (*syncDomain.QueueItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, action, status, attempts, last_error, created_at
			  FROM queue_items WHERE status = ? ORDER BY created_at ASC, id ASC LIMIT 1`

	item, err := scanQueueItem(querier.QueryRowContext(ctx, query, syncDomain.QueueItemStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to get pending queue item")
	}
	return item, nil
}

// Get retrieves a QueueItem by ID.
func (r *SQLiteQueueRepository) Get(ctx context.Context, id uuid.UUID) (*syncDomain.QueueItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, action, status, attempts, last_error, created_at
			  FROM queue_items WHERE id = ?`

	item, err := scanQueueItem(querier.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueueItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get queue item")
	}
	return item, nil
}

// Update persists status, attempts, and last error for an existing item.
func (r *SQLiteQueueRepository) Update(ctx context.Context, item *syncDomain.QueueItem) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE queue_items SET status = ?, attempts = ?, last_error = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, item.Status, item.Attempts, item.LastError, item.ID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update queue item")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

// Delete removes a QueueItem by ID. Returns whether a record was removed.
func (r *SQLiteQueueRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id.String())
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete queue item")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read delete result")
	}
	return affected > 0, nil
}

// ListAll retrieves every queue item, oldest first.
func (r *SQLiteQueueRepository) ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, action, status, attempts, last_error, created_at
			  FROM queue_items ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list queue items")
	}
	defer rows.Close() //nolint:errcheck

	var items []*syncDomain.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan queue item")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list queue items")
	}
	return items, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueueItem(row rowScanner) (*syncDomain.QueueItem, error) {
	var item syncDomain.QueueItem
	var rawID string
	var lastError sql.NullString
	var createdAt int64

	if err := row.Scan(&rawID, &item.Action, &item.Status, &item.Attempts, &lastError, &createdAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	item.ID = id

	if lastError.Valid {
		item.LastError = &lastError.String
	}
	item.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &item, nil
}
