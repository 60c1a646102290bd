// Package domain defines the sync queue and conflict resolution models.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

// Queue item statuses. Successful deliveries are removed rather than kept
// with a terminal status.
const (
	QueueItemStatusPending = "pending"
	QueueItemStatusFailed  = "failed"
)

// QueueItem is one queued action awaiting delivery. Items are owned
// exclusively by the queue use case; status transitions happen only through
// the delivery worker.
type QueueItem struct {
	ID        uuid.UUID
	Action    string
	Status    string
	Attempts  int
	LastError *string
	CreatedAt time.Time
}

// NewQueueItem creates a pending queue item for the given action payload.
func NewQueueItem(action string) (*QueueItem, error) {
	if action == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "action is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate queue item id")
	}

	return &QueueItem{
		ID:        id,
		Action:    action,
		Status:    QueueItemStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}
