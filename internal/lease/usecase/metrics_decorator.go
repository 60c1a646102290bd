package usecase

import (
	"context"
	"time"

	"github.com/allisson/leasehold/internal/authz"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
	"github.com/allisson/leasehold/internal/metrics"
)

// leaseManagerWithMetrics decorates LeaseManager with metrics instrumentation.
type leaseManagerWithMetrics struct {
	next    LeaseManager
	metrics metrics.BusinessMetrics
}

// NewLeaseManagerWithMetrics wraps a LeaseManager with metrics recording.
func NewLeaseManagerWithMetrics(manager LeaseManager, m metrics.BusinessMetrics) LeaseManager {
	return &leaseManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// Create records metrics for lease creation operations.
func (l *leaseManagerWithMetrics) Create(
	ctx context.Context,
	session *authz.Context,
	input CreateLeaseInput,
) (*leaseDomain.Lease, error) {
	start := time.Now()
	lease, err := l.next.Create(ctx, session, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lease", "create", status)
	l.metrics.RecordDuration(ctx, "lease", "create", time.Since(start), status)

	return lease, err
}

// Revoke records metrics for lease revocation operations.
func (l *leaseManagerWithMetrics) Revoke(
	ctx context.Context,
	session *authz.Context,
	id string,
) (bool, error) {
	start := time.Now()
	removed, err := l.next.Revoke(ctx, session, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lease", "revoke", status)
	l.metrics.RecordDuration(ctx, "lease", "revoke", time.Since(start), status)

	return removed, err
}

// ListByOwner records metrics for owner-scoped lease listing operations.
func (l *leaseManagerWithMetrics) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]*leaseDomain.Lease, error) {
	start := time.Now()
	leases, err := l.next.ListByOwner(ctx, ownerID)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lease", "list", status)
	l.metrics.RecordDuration(ctx, "lease", "list", time.Since(start), status)

	return leases, err
}

// ListAll records metrics for full lease listing operations.
func (l *leaseManagerWithMetrics) ListAll(ctx context.Context) ([]*leaseDomain.Lease, error) {
	start := time.Now()
	leases, err := l.next.ListAll(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lease", "list", status)
	l.metrics.RecordDuration(ctx, "lease", "list", time.Since(start), status)

	return leases, err
}

// IssueToken records metrics for delegation token issuance operations.
func (l *leaseManagerWithMetrics) IssueToken(
	ctx context.Context,
	session *authz.Context,
	id string,
) (string, error) {
	start := time.Now()
	token, err := l.next.IssueToken(ctx, session, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lease", "issue_token", status)
	l.metrics.RecordDuration(ctx, "lease", "issue_token", time.Since(start), status)

	return token, err
}
