package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/leasehold/internal/authz"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// QueueItemRepository defines queue item persistence operations.
type QueueItemRepository interface {
	Create(ctx context.Context, item *syncDomain.QueueItem) error
	FirstPending(ctx context.Context) (*syncDomain.QueueItem, error)
	Get(ctx context.Context, id uuid.UUID) (*syncDomain.QueueItem, error)
	Update(ctx context.Context, item *syncDomain.QueueItem) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error)
}

// Transport delivers queued actions to the remote sync endpoint and pulls
// the remote record set.
type Transport interface {
	Push(ctx context.Context, action string) error
	Pull(ctx context.Context) ([]*syncDomain.Record, error)
}

// Prober reports remote reachability before a delivery attempt.
type Prober interface {
	IsOnline(ctx context.Context) bool
}

// Requirer gates operations on capabilities.
type Requirer interface {
	Require(ctx context.Context, session *authz.Context, cap authz.Capability, scope string) error
}

// Auditor records sync events in the audit sink.
type Auditor interface {
	Log(ctx context.Context, eventType string, details map[string]any)
}

// Notifier publishes in-process notifications on the sync topics.
type Notifier interface {
	Emit(topic string, data any)
}

// QueueManager is the queue surface consumed by the delivery worker and the
// CLI. Implemented by QueueUseCase and its metrics decorator.
type QueueManager interface {
	Enqueue(ctx context.Context, session *authz.Context, action string) (*syncDomain.QueueItem, error)
	NextPending(ctx context.Context) (*syncDomain.QueueItem, error)
	MarkSuccess(ctx context.Context, id uuid.UUID) error
	MarkFailure(ctx context.Context, id uuid.UUID, cause error) error
	ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error)
}
