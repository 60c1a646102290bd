// Package repository provides data persistence implementations for lease entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/leasehold/internal/database"
	apperrors "github.com/allisson/leasehold/internal/errors"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// SQLiteLeaseRepository implements Lease persistence for SQLite.
// Uses transaction support via database.GetTx(). Timestamps are stored as
// UTC unix milliseconds.
type SQLiteLeaseRepository struct {
	db *sql.DB
}

// NewSQLiteLeaseRepository creates a new SQLiteLeaseRepository.
func NewSQLiteLeaseRepository(db *sql.DB) *SQLiteLeaseRepository {
	return &SQLiteLeaseRepository{db: db}
}

// Create inserts a new Lease. Returns an error if database insertion fails.
func (r *SQLiteLeaseRepository) Create(ctx context.Context, lease *leaseDomain.Lease) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO leases (id, owner_id, organism_id, created_at, expires_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		lease.ID,
		lease.OwnerID,
		lease.OrganismID,
		toMillis(lease.CreatedAt),
		toMillisPtr(lease.ExpiresAt),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create lease")
	}
	return nil
}

// Delete removes a Lease by ID. Returns whether a record was removed.
func (r *SQLiteLeaseRepository) Delete(ctx context.Context, id string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM leases WHERE id = ?`, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete lease")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read delete result")
	}
	return affected > 0, nil
}

// Get retrieves a Lease by ID. Returns ErrLeaseNotFound if it doesn't exist.
func (r *SQLiteLeaseRepository) Get(ctx context.Context, id string) (*leaseDomain.Lease, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, organism_id, created_at, expires_at
			  FROM leases WHERE id = ?`

	lease, err := scanLease(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leaseDomain.ErrLeaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get lease")
	}
	return lease, nil
}

// ListByOwner retrieves all leases held by an owner, oldest first.
func (r *SQLiteLeaseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*leaseDomain.Lease, error) {
	query := `SELECT id, owner_id, organism_id, created_at, expires_at
			  FROM leases WHERE owner_id = ? ORDER BY created_at ASC`

	return r.list(ctx, query, ownerID)
}

// ListAll retrieves every lease, oldest first.
func (r *SQLiteLeaseRepository) ListAll(ctx context.Context) ([]*leaseDomain.Lease, error) {
	query := `SELECT id, owner_id, organism_id, created_at, expires_at
			  FROM leases ORDER BY created_at ASC`

	return r.list(ctx, query)
}

// ActiveOwnershipExists reports whether the owner holds a lease over the
// organism that is active at the given instant (no expiry, or expiry
// strictly in the future).
func (r *SQLiteLeaseRepository) ActiveOwnershipExists(
	ctx context.Context,
	ownerID, organismID string,
	at time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM leases
				WHERE owner_id = ? AND organism_id = ?
				  AND (expires_at IS NULL OR expires_at > ?)
			  )`

	var exists bool
	err := querier.QueryRowContext(ctx, query, ownerID, organismID, toMillis(at)).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check lease ownership")
	}
	return exists, nil
}

func (r *SQLiteLeaseRepository) list(ctx context.Context, query string, args ...any) ([]*leaseDomain.Lease, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list leases")
	}
	defer rows.Close() //nolint:errcheck

	var leases []*leaseDomain.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan lease")
		}
		leases = append(leases, lease)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list leases")
	}
	return leases, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*leaseDomain.Lease, error) {
	var lease leaseDomain.Lease
	var createdAt int64
	var expiresAt sql.NullInt64

	if err := row.Scan(&lease.ID, &lease.OwnerID, &lease.OrganismID, &createdAt, &expiresAt); err != nil {
		return nil, err
	}

	lease.CreatedAt = fromMillis(createdAt)
	if expiresAt.Valid {
		expiry := fromMillis(expiresAt.Int64)
		lease.ExpiresAt = &expiry
	}
	return &lease, nil
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func toMillisPtr(value *time.Time) *int64 {
	if value == nil {
		return nil
	}
	millis := toMillis(*value)
	return &millis
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
