package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/leasehold/internal/authz"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

type fakeTransport struct {
	mu      sync.Mutex
	pushErr error
	pushed  []string
	records []*syncDomain.Record
	pullErr error
}

func (f *fakeTransport) Push(_ context.Context, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, action)
	return nil
}

func (f *fakeTransport) pushedActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pushed...)
}

func (f *fakeTransport) Pull(_ context.Context) ([]*syncDomain.Record, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.records, nil
}

type fakeProber struct {
	online bool
}

func (f *fakeProber) IsOnline(_ context.Context) bool { return f.online }

type fakeAuditor struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeAuditor) Log(_ context.Context, eventType string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeAuditor) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (f *fakeNotifier) Emit(topic string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
}

func (f *fakeNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.topics...)
}

type workerFixture struct {
	worker    *DeliveryWorker
	repo      *fakeQueueRepo
	queue     *QueueUseCase
	transport *fakeTransport
	prober    *fakeProber
	requirer  *fakeRequirer
	audit     *fakeAuditor
	notifier  *fakeNotifier
	session   *authz.Context
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()

	repo := newFakeQueueRepo()
	requirer := &fakeRequirer{}
	queue := NewQueueUseCase(repo, nopTxManager{}, requirer, 1)
	transport := &fakeTransport{}
	prober := &fakeProber{online: true}
	audit := &fakeAuditor{}
	notifier := &fakeNotifier{}
	session := authz.Elevated("worker")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	worker := NewDeliveryWorker(
		WorkerConfig{Interval: 5 * time.Millisecond},
		queue, transport, prober, requirer, session, audit, notifier, logger,
	)
	return &workerFixture{
		worker:    worker,
		repo:      repo,
		queue:     queue,
		transport: transport,
		prober:    prober,
		requirer:  requirer,
		audit:     audit,
		notifier:  notifier,
		session:   session,
	}
}

func (fx *workerFixture) enqueue(t *testing.T, action string) *syncDomain.QueueItem {
	t.Helper()
	item, err := fx.queue.Enqueue(context.Background(), fx.session, action)
	require.NoError(t, err)
	return item
}

func TestDeliveryWorker_TickDeliversOneItem(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.enqueue(t, `{"seq":1}`)
	fx.enqueue(t, `{"seq":2}`)

	require.NoError(t, fx.worker.Tick(context.Background()))

	assert.Equal(t, []string{`{"seq":1}`}, fx.transport.pushedActions())
	assert.Len(t, fx.repo.items, 1)
	assert.Equal(t, []string{"sync.push"}, fx.audit.all())
	assert.Equal(t, []string{syncDomain.TopicSyncStart, syncDomain.TopicSyncSuccess}, fx.notifier.all())
}

func TestDeliveryWorker_TickEmptyQueue(t *testing.T) {
	fx := newWorkerFixture(t)

	require.NoError(t, fx.worker.Tick(context.Background()))

	assert.Empty(t, fx.transport.pushedActions())
	assert.Empty(t, fx.notifier.all())
}

func TestDeliveryWorker_TickDeniedIsNoOp(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.requirer.denied = map[authz.Capability]bool{authz.CapSyncAll: true}
	fx.enqueue(t, `{"seq":1}`)

	require.NoError(t, fx.worker.Tick(context.Background()))

	assert.Empty(t, fx.transport.pushedActions())
	assert.Len(t, fx.repo.items, 1)
	assert.Empty(t, fx.notifier.all())
}

func TestDeliveryWorker_TickOffline(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.prober.online = false
	fx.enqueue(t, `{"seq":1}`)

	require.NoError(t, fx.worker.Tick(context.Background()))

	assert.Empty(t, fx.transport.pushedActions())
	assert.Len(t, fx.repo.items, 1)
	assert.Equal(t, []string{syncDomain.TopicSyncOffline}, fx.notifier.all())
}

func TestDeliveryWorker_TickFailure(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.transport.pushErr = errors.New("push failed")
	item := fx.enqueue(t, `{"seq":1}`)

	require.NoError(t, fx.worker.Tick(context.Background()))

	stored := fx.repo.items[item.ID]
	assert.Equal(t, syncDomain.QueueItemStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.Equal(t, []string{"sync.error"}, fx.audit.all())
	assert.Equal(t, []string{syncDomain.TopicSyncStart, syncDomain.TopicSyncError}, fx.notifier.all())

	// Terminal failure: the next tick finds nothing pending.
	require.NoError(t, fx.worker.Tick(context.Background()))
	assert.Empty(t, fx.transport.pushedActions())
}

func TestDeliveryWorker_OverlappingTickSkipped(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.enqueue(t, `{"seq":1}`)

	fx.worker.inProgress.Store(true)
	require.NoError(t, fx.worker.Tick(context.Background()))
	assert.Empty(t, fx.transport.pushedActions())

	fx.worker.inProgress.Store(false)
	require.NoError(t, fx.worker.Tick(context.Background()))
	assert.Len(t, fx.transport.pushedActions(), 1)
}

func TestDeliveryWorker_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	fx := newWorkerFixture(t)
	fx.enqueue(t, `{"seq":1}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fx.worker.Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return len(fx.transport.pushedActions()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestDeliveryWorker_Pull(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.transport.records = []*syncDomain.Record{{ID: "r1"}}

	records, err := fx.worker.Pull(context.Background(), fx.session)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Contains(t, fx.notifier.all(), syncDomain.TopicSyncPull)
}

func TestDeliveryWorker_PullDenied(t *testing.T) {
	fx := newWorkerFixture(t)
	fx.requirer.denied = map[authz.Capability]bool{authz.CapSyncAll: true}

	_, err := fx.worker.Pull(context.Background(), fx.session)
	assert.Error(t, err)
}
