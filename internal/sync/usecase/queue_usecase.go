// Package usecase implements the sync queue business logic and the timer
// driven delivery worker.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/database"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// QueueUseCase owns all queue item mutations. Enqueueing requires the
// sync.queue capability; status transitions happen only through the
// delivery worker's success and failure callbacks.
type QueueUseCase struct {
	repo        QueueItemRepository
	txManager   database.TxManager
	enforcer    Requirer
	maxAttempts int
}

// NewQueueUseCase creates a QueueUseCase. maxAttempts bounds delivery
// retries: an item whose attempt count reaches it becomes failed and is no
// longer picked up.
func NewQueueUseCase(
	repo QueueItemRepository,
	txManager database.TxManager,
	enforcer Requirer,
	maxAttempts int,
) *QueueUseCase {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &QueueUseCase{
		repo:        repo,
		txManager:   txManager,
		enforcer:    enforcer,
		maxAttempts: maxAttempts,
	}
}

// Enqueue creates a pending queue item for the action payload.
func (uc *QueueUseCase) Enqueue(
	ctx context.Context,
	session *authz.Context,
	action string,
) (*syncDomain.QueueItem, error) {
	if err := uc.enforcer.Require(ctx, session, authz.CapSyncQueue, ""); err != nil {
		return nil, err
	}

	item, err := syncDomain.NewQueueItem(action)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// NextPending returns the oldest pending item, or nil when there is none.
func (uc *QueueUseCase) NextPending(ctx context.Context) (*syncDomain.QueueItem, error) {
	return uc.repo.FirstPending(ctx)
}

// MarkSuccess removes a delivered item. Successful deliveries leave no row
// behind.
func (uc *QueueUseCase) MarkSuccess(ctx context.Context, id uuid.UUID) error {
	_, err := uc.repo.Delete(ctx, id)
	return err
}

// MarkFailure records a failed delivery attempt. The item stays pending
// until its attempt count reaches the configured maximum, then becomes
// failed.
func (uc *QueueUseCase) MarkFailure(ctx context.Context, id uuid.UUID, cause error) error {
	// Read and update run in one transaction so concurrent attempts cannot
	// lose an increment.
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := uc.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		item.Attempts++
		if cause != nil {
			msg := cause.Error()
			item.LastError = &msg
		}
		if item.Attempts >= uc.maxAttempts {
			item.Status = syncDomain.QueueItemStatusFailed
		}

		return uc.repo.Update(ctx, item)
	})
}

// ListAll returns every queue item, oldest first.
func (uc *QueueUseCase) ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error) {
	return uc.repo.ListAll(ctx)
}

// ResolveConflict deterministically merges two versions of a record.
func (uc *QueueUseCase) ResolveConflict(local, remote *syncDomain.Record) *syncDomain.Record {
	return syncDomain.Resolve(local, remote)
}
