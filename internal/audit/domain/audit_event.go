// Package domain defines the audit event model. Audit entries are
// append-only: they are never rewritten or deleted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known audit event types.
const (
	EventLeaseCreate  = "lease.create"
	EventLeaseRevoke  = "lease.revoke"
	EventSecretRotate = "lease_secret.rotate"
	EventSyncPush     = "sync.push"
	EventSyncError    = "sync.error"
)

// AuditEvent records one system event with structured details.
type AuditEvent struct {
	ID        uuid.UUID
	EventType string
	Details   map[string]any
	CreatedAt time.Time
}
