package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
	"github.com/allisson/leasehold/internal/authz"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// WorkerConfig holds delivery worker configuration.
type WorkerConfig struct {
	Interval time.Duration
}

// DeliveryWorker drains the queue through the remote transport on a fixed
// interval. At most one delivery is attempted per tick, and an in-progress
// flag keeps overlapping ticks from racing each other.
type DeliveryWorker struct {
	config    WorkerConfig
	queue     QueueManager
	transport Transport
	prober    Prober
	enforcer  Requirer
	session   *authz.Context
	audit     Auditor
	notifier  Notifier
	logger    *slog.Logger

	inProgress atomic.Bool
}

// NewDeliveryWorker creates a DeliveryWorker. The session is the worker's
// own authorization context; ticks are denied (as no-ops) when it lacks the
// sync.all capability.
func NewDeliveryWorker(
	config WorkerConfig,
	queue QueueManager,
	transport Transport,
	prober Prober,
	enforcer Requirer,
	session *authz.Context,
	audit Auditor,
	notifier Notifier,
	logger *slog.Logger,
) *DeliveryWorker {
	return &DeliveryWorker{
		config:    config,
		queue:     queue,
		transport: transport,
		prober:    prober,
		enforcer:  enforcer,
		session:   session,
		audit:     audit,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start runs the delivery loop until the context is canceled. Queued items
// are durable before each tick returns, so stopping loses nothing.
func (w *DeliveryWorker) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("starting delivery worker", slog.Duration("interval", w.config.Interval))
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Info("stopping delivery worker")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				if w.logger != nil {
					w.logger.Error("delivery tick failed", slog.Any("error", err))
				}
			}
		}
	}
}

// Tick attempts delivery of at most one pending item. A tick that overlaps
// a still-running one is skipped.
func (w *DeliveryWorker) Tick(ctx context.Context) error {
	if !w.inProgress.CompareAndSwap(false, true) {
		return nil
	}
	defer w.inProgress.Store(false)

	if err := w.enforcer.Require(ctx, w.session, authz.CapSyncAll, ""); err != nil {
		if w.logger != nil {
			w.logger.Debug("delivery tick denied", slog.Any("error", err))
		}
		return nil
	}

	if !w.prober.IsOnline(ctx) {
		w.notifier.Emit(syncDomain.TopicSyncOffline, nil)
		return nil
	}

	item, err := w.queue.NextPending(ctx)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	w.notifier.Emit(syncDomain.TopicSyncStart, item)

	if err := w.transport.Push(ctx, item.Action); err != nil {
		if markErr := w.queue.MarkFailure(ctx, item.ID, err); markErr != nil {
			return markErr
		}
		w.audit.Log(ctx, auditDomain.EventSyncError, map[string]any{
			"itemId": item.ID.String(),
			"error":  err.Error(),
		})
		w.notifier.Emit(syncDomain.TopicSyncError, item)
		return nil
	}

	if err := w.queue.MarkSuccess(ctx, item.ID); err != nil {
		return err
	}
	w.audit.Log(ctx, auditDomain.EventSyncPush, map[string]any{
		"itemId": item.ID.String(),
		"action": item.Action,
	})
	w.notifier.Emit(syncDomain.TopicSyncSuccess, item)
	return nil
}

// Pull fetches the full remote record set. Requires the sync.all capability
// for the given session.
func (w *DeliveryWorker) Pull(ctx context.Context, session *authz.Context) ([]*syncDomain.Record, error) {
	if err := w.enforcer.Require(ctx, session, authz.CapSyncAll, ""); err != nil {
		return nil, err
	}

	records, err := w.transport.Pull(ctx)
	if err != nil {
		return nil, err
	}

	w.notifier.Emit(syncDomain.TopicSyncPull, records)
	return records, nil
}
