// Package repository provides data persistence implementations for audit events.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
	"github.com/allisson/leasehold/internal/database"
	apperrors "github.com/allisson/leasehold/internal/errors"
)

// SQLiteAuditRepository implements append-only audit event persistence for
// SQLite. There is intentionally no update or delete operation.
type SQLiteAuditRepository struct {
	db *sql.DB
}

// NewSQLiteAuditRepository creates a new SQLiteAuditRepository.
func NewSQLiteAuditRepository(db *sql.DB) *SQLiteAuditRepository {
	return &SQLiteAuditRepository{db: db}
}

// Create appends a new audit event.
func (r *SQLiteAuditRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, r.db)

	details, err := json.Marshal(event.Details)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode audit details")
	}

	query := `INSERT INTO audit_events (id, event_type, details, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID.String(),
		event.EventType,
		string(details),
		event.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// ListRecent retrieves the last limit audit events, oldest of those first.
func (r *SQLiteAuditRepository) ListRecent(ctx context.Context, limit int) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, details, created_at FROM (
				SELECT id, event_type, details, created_at
				FROM audit_events ORDER BY created_at DESC, id DESC LIMIT ?
			  ) ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*auditDomain.AuditEvent
	for rows.Next() {
		var event auditDomain.AuditEvent
		var id, details string
		var createdAt int64

		if err := rows.Scan(&id, &event.EventType, &details, &createdAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		parsed, err := parseEventID(id)
		if err != nil {
			return nil, err
		}
		event.ID = parsed

		if err := json.Unmarshal([]byte(details), &event.Details); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode audit details")
		}
		event.CreatedAt = fromMillis(createdAt)

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}
