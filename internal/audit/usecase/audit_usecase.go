// Package usecase implements audit logging business logic.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
)

// AuditRepository defines audit event persistence operations.
type AuditRepository interface {
	Create(ctx context.Context, event *auditDomain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]*auditDomain.AuditEvent, error)
}

// AuditUseCase records and lists audit events. The audit sink is write-only
// for the rest of the system; only the admin surface reads it back.
type AuditUseCase struct {
	repo   AuditRepository
	logger *slog.Logger
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(repo AuditRepository, logger *slog.Logger) *AuditUseCase {
	return &AuditUseCase{repo: repo, logger: logger}
}

// Log appends an audit event. Audit writes are best-effort: a failure is
// logged but never propagated, so audit availability cannot block the
// operation being audited.
func (uc *AuditUseCase) Log(ctx context.Context, eventType string, details map[string]any) {
	event := &auditDomain.AuditEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, event); err != nil {
		uc.logger.Error("audit write failed",
			slog.String("event_type", eventType),
			slog.Any("error", err),
		)
	}
}

// ListRecent returns the last limit audit events.
func (uc *AuditUseCase) ListRecent(ctx context.Context, limit int) ([]*auditDomain.AuditEvent, error) {
	return uc.repo.ListRecent(ctx, limit)
}
