package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// QueueLister exposes the queued actions awaiting delivery.
type QueueLister interface {
	ListAll(ctx context.Context) ([]*syncDomain.QueueItem, error)
}

// RunListQueue lists the sync queue, oldest first, including terminally
// failed items and their last error.
func RunListQueue(
	ctx context.Context,
	queue QueueLister,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	items, err := queue.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue items: %w", err)
	}

	if format == "json" {
		outputs := make([]queueItemOutput, 0, len(items))
		for _, item := range items {
			outputs = append(outputs, queueItemToOutput(item))
		}
		writeJSON(outputs, io.Writer)
		return nil
	}

	if len(items) == 0 {
		_, _ = fmt.Fprintln(io.Writer, "Queue is empty")
		return nil
	}
	for _, item := range items {
		_, _ = fmt.Fprintf(io.Writer, "%s  %s  attempts=%d  %s\n",
			item.ID, item.Status, item.Attempts, item.Action)
		if item.LastError != nil {
			_, _ = fmt.Fprintf(io.Writer, "  last error: %s\n", *item.LastError)
		}
	}

	logger.Info("listed queue items", slog.Int("count", len(items)))
	return nil
}

type queueItemOutput struct {
	ID        string  `json:"id"`
	Action    string  `json:"action"`
	Status    string  `json:"status"`
	Attempts  int     `json:"attempts"`
	LastError *string `json:"lastError,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func queueItemToOutput(item *syncDomain.QueueItem) queueItemOutput {
	return queueItemOutput{
		ID:        item.ID.String(),
		Action:    item.Action,
		Status:    item.Status,
		Attempts:  item.Attempts,
		LastError: item.LastError,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}
}
