package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/metrics"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// queueManagerWithMetrics decorates QueueManager with metrics instrumentation.
type queueManagerWithMetrics struct {
	next    QueueManager
	metrics metrics.BusinessMetrics
}

// NewQueueManagerWithMetrics wraps a QueueManager with metrics recording.
func NewQueueManagerWithMetrics(manager QueueManager, m metrics.BusinessMetrics) QueueManager {
	return &queueManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// Enqueue records metrics for queue admission operations.
func (q *queueManagerWithMetrics) Enqueue(
	ctx context.Context,
	session *authz.Context,
	action string,
) (*syncDomain.QueueItem, error) {
	start := time.Now()
	item, err := q.next.Enqueue(ctx, session, action)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "sync", "enqueue", status)
	q.metrics.RecordDuration(ctx, "sync", "enqueue", time.Since(start), status)

	return item, err
}

// NextPending passes through; polling reads are not recorded.
func (q *queueManagerWithMetrics) NextPending(ctx context.Context) (*syncDomain.QueueItem, error) {
	return q.next.NextPending(ctx)
}

// MarkSuccess records a successful delivery outcome.
func (q *queueManagerWithMetrics) MarkSuccess(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := q.next.MarkSuccess(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "sync", "deliver", status)
	q.metrics.RecordDuration(ctx, "sync", "deliver", time.Since(start), status)

	return err
}

// MarkFailure records a failed delivery outcome.
func (q *queueManagerWithMetrics) MarkFailure(ctx context.Context, id uuid.UUID, cause error) error {
	start := time.Now()
	err := q.next.MarkFailure(ctx, id, cause)

	q.metrics.RecordOperation(ctx, "sync", "deliver", "error")
	q.metrics.RecordDuration(ctx, "sync", "deliver", time.Since(start), "error")

	return err
}

// ListAll passes through; inspection reads are not recorded.
func (q *queueManagerWithMetrics) ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error) {
	return q.next.ListAll(ctx)
}
