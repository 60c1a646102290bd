package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/leasehold/internal/authz"
	apperrors "github.com/allisson/leasehold/internal/errors"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

type fakeQueueRepo struct {
	items map[uuid.UUID]*syncDomain.QueueItem
	order []uuid.UUID
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{items: make(map[uuid.UUID]*syncDomain.QueueItem)}
}

func (f *fakeQueueRepo) Create(_ context.Context, item *syncDomain.QueueItem) error {
	clone := *item
	f.items[item.ID] = &clone
	f.order = append(f.order, item.ID)
	return nil
}

func (f *fakeQueueRepo) FirstPending(_ context.Context) (*syncDomain.QueueItem, error) {
	for _, id := range f.order {
		item, ok := f.items[id]
		if ok && item.Status == syncDomain.QueueItemStatusPending {
			clone := *item
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeQueueRepo) Get(_ context.Context, id uuid.UUID) (*syncDomain.QueueItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "queue item")
	}
	clone := *item
	return &clone, nil
}

func (f *fakeQueueRepo) Update(_ context.Context, item *syncDomain.QueueItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return apperrors.Wrap(apperrors.ErrNotFound, "queue item")
	}
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeQueueRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeQueueRepo) ListAll(_ context.Context) ([]*syncDomain.QueueItem, error) {
	var out []*syncDomain.QueueItem
	for _, id := range f.order {
		if item, ok := f.items[id]; ok {
			clone := *item
			out = append(out, &clone)
		}
	}
	return out, nil
}

type nopTxManager struct{}

func (nopTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRequirer struct {
	denied map[authz.Capability]bool
	calls  []authz.Capability
}

func (f *fakeRequirer) Require(_ context.Context, _ *authz.Context, cap authz.Capability, scope string) error {
	f.calls = append(f.calls, cap)
	if f.denied[cap] {
		return &authz.PermissionDeniedError{Capability: cap, Scope: scope}
	}
	return nil
}

func TestQueueUseCase_Enqueue(t *testing.T) {
	repo := newFakeQueueRepo()
	requirer := &fakeRequirer{}
	uc := NewQueueUseCase(repo, nopTxManager{}, requirer, 1)
	session := authz.NewContext(authz.RoleUser)

	item, err := uc.Enqueue(context.Background(), session, `{"type":"note.update"}`)
	require.NoError(t, err)
	assert.Equal(t, syncDomain.QueueItemStatusPending, item.Status)
	assert.Equal(t, []authz.Capability{authz.CapSyncQueue}, requirer.calls)
	assert.Len(t, repo.items, 1)
}

func TestQueueUseCase_EnqueueDenied(t *testing.T) {
	repo := newFakeQueueRepo()
	requirer := &fakeRequirer{denied: map[authz.Capability]bool{authz.CapSyncQueue: true}}
	uc := NewQueueUseCase(repo, nopTxManager{}, requirer, 1)
	session := authz.NewContext(authz.RoleGuest)

	_, err := uc.Enqueue(context.Background(), session, `{"type":"note.update"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, repo.items)
}

func TestQueueUseCase_EnqueueInvalidAction(t *testing.T) {
	uc := NewQueueUseCase(newFakeQueueRepo(), nopTxManager{}, &fakeRequirer{}, 1)
	session := authz.NewContext(authz.RoleUser)

	_, err := uc.Enqueue(context.Background(), session, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQueueUseCase_MarkSuccessRemovesItem(t *testing.T) {
	repo := newFakeQueueRepo()
	uc := NewQueueUseCase(repo, nopTxManager{}, &fakeRequirer{}, 1)
	session := authz.NewContext(authz.RoleUser)

	item, err := uc.Enqueue(context.Background(), session, `{"seq":1}`)
	require.NoError(t, err)

	require.NoError(t, uc.MarkSuccess(context.Background(), item.ID))
	assert.Empty(t, repo.items)

	next, err := uc.NextPending(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestQueueUseCase_MarkFailureTerminalOnFirstAttempt(t *testing.T) {
	repo := newFakeQueueRepo()
	uc := NewQueueUseCase(repo, nopTxManager{}, &fakeRequirer{}, 1)
	session := authz.NewContext(authz.RoleUser)

	item, err := uc.Enqueue(context.Background(), session, `{"seq":1}`)
	require.NoError(t, err)

	require.NoError(t, uc.MarkFailure(context.Background(), item.ID, errors.New("push failed")))

	stored := repo.items[item.ID]
	assert.Equal(t, syncDomain.QueueItemStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	require.NotNil(t, stored.LastError)
	assert.Equal(t, "push failed", *stored.LastError)

	next, err := uc.NextPending(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestQueueUseCase_MarkFailureRetriesUntilMaxAttempts(t *testing.T) {
	repo := newFakeQueueRepo()
	uc := NewQueueUseCase(repo, nopTxManager{}, &fakeRequirer{}, 3)
	session := authz.NewContext(authz.RoleUser)

	item, err := uc.Enqueue(context.Background(), session, `{"seq":1}`)
	require.NoError(t, err)

	for attempt := 1; attempt <= 2; attempt++ {
		require.NoError(t, uc.MarkFailure(context.Background(), item.ID, errors.New("push failed")))
		stored := repo.items[item.ID]
		assert.Equal(t, syncDomain.QueueItemStatusPending, stored.Status)
		assert.Equal(t, attempt, stored.Attempts)
	}

	require.NoError(t, uc.MarkFailure(context.Background(), item.ID, errors.New("push failed")))
	assert.Equal(t, syncDomain.QueueItemStatusFailed, repo.items[item.ID].Status)
}

func TestQueueUseCase_ResolveConflict(t *testing.T) {
	uc := NewQueueUseCase(newFakeQueueRepo(), nopTxManager{}, &fakeRequirer{}, 1)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := &syncDomain.Record{ID: "r1", UpdatedAt: at}
	remote := &syncDomain.Record{ID: "r1", UpdatedAt: at.Add(time.Second)}

	assert.Same(t, remote, uc.ResolveConflict(local, remote))
	assert.Same(t, local, uc.ResolveConflict(local, nil))
}
