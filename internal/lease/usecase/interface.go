package usecase

import (
	"context"
	"time"

	"github.com/allisson/leasehold/internal/authz"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// LeaseRepository defines lease persistence operations.
type LeaseRepository interface {
	Create(ctx context.Context, lease *leaseDomain.Lease) error
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*leaseDomain.Lease, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*leaseDomain.Lease, error)
	ListAll(ctx context.Context) ([]*leaseDomain.Lease, error)
	ActiveOwnershipExists(ctx context.Context, ownerID, organismID string, at time.Time) (bool, error)
}

// Auditor records audit events.
type Auditor interface {
	Log(ctx context.Context, eventType string, details map[string]any)
}

// Requirer gates state-mutating operations. Implemented by authz.Enforcer.
type Requirer interface {
	Require(ctx context.Context, session *authz.Context, cap authz.Capability, scope string) error
}

// TokenSigner signs delegation tokens from leases.
type TokenSigner interface {
	Sign(lease *leaseDomain.Lease, extra map[string]any) (string, error)
}

// CreateLeaseInput contains the parameters for issuing a new lease.
type CreateLeaseInput struct {
	OwnerID    string
	OrganismID string
	ExpiresAt  *time.Time
}

// LeaseManager is the lease lifecycle surface consumed by the HTTP handlers
// and the CLI. Implemented by LeaseUseCase and its metrics decorator.
type LeaseManager interface {
	Create(ctx context.Context, session *authz.Context, input CreateLeaseInput) (*leaseDomain.Lease, error)
	Revoke(ctx context.Context, session *authz.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*leaseDomain.Lease, error)
	ListAll(ctx context.Context) ([]*leaseDomain.Lease, error)
	IssueToken(ctx context.Context, session *authz.Context, id string) (string, error)
}
