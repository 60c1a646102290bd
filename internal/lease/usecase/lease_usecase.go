// Package usecase implements lease lifecycle business logic: issue, revoke,
// owner-scoped lookup, expiry-aware ownership checks, and delegation token
// issuance.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/database"
	apperrors "github.com/allisson/leasehold/internal/errors"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// LeaseUseCase exclusively owns all lease records; no other component
// mutates them directly. It also answers the enforcement engine's active
// ownership queries (authz.OwnershipChecker).
//
// The enforcer is attached after construction via BindEnforcer because the
// enforcer itself consults this use case for lease-delegated scopes.
type LeaseUseCase struct {
	repo      LeaseRepository
	txManager database.TxManager
	audit     Auditor
	signer    TokenSigner
	enforcer  Requirer

	now func() time.Time
}

// NewLeaseUseCase creates a LeaseUseCase. Call BindEnforcer before invoking
// mutating operations.
func NewLeaseUseCase(
	repo LeaseRepository,
	txManager database.TxManager,
	audit Auditor,
	signer TokenSigner,
) *LeaseUseCase {
	return &LeaseUseCase{
		repo:      repo,
		txManager: txManager,
		audit:     audit,
		signer:    signer,
		now:       time.Now,
	}
}

// BindEnforcer attaches the enforcement engine. Split from construction to
// break the cycle between enforcement and ownership checks.
func (uc *LeaseUseCase) BindEnforcer(enforcer Requirer) {
	uc.enforcer = enforcer
}

// require gates a mutating operation. A missing enforcer fails closed.
func (uc *LeaseUseCase) require(
	ctx context.Context,
	session *authz.Context,
	cap authz.Capability,
	scope string,
) error {
	if uc.enforcer == nil {
		return apperrors.New("enforcer not configured")
	}
	return uc.enforcer.Require(ctx, session, cap, scope)
}

// Create issues a new lease. Identifier validation happens before any I/O,
// and no mutation occurs when enforcement denies. Emits a lease.create audit
// event.
func (uc *LeaseUseCase) Create(
	ctx context.Context,
	session *authz.Context,
	input CreateLeaseInput,
) (*leaseDomain.Lease, error) {
	lease, err := leaseDomain.NewLease(input.OwnerID, input.OrganismID, input.ExpiresAt, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.require(ctx, session, authz.CapLeaseManage, input.OrganismID); err != nil {
		return nil, err
	}

	// The lease row and its audit record commit together.
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, lease); err != nil {
			return err
		}
		uc.audit.Log(ctx, auditDomain.EventLeaseCreate, map[string]any{
			"leaseId":    lease.ID,
			"ownerId":    lease.OwnerID,
			"organismId": lease.OrganismID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// Revoke removes a lease record. Returns whether removal occurred and emits
// a lease.revoke audit event on success.
func (uc *LeaseUseCase) Revoke(ctx context.Context, session *authz.Context, id string) (bool, error) {
	if err := uc.require(ctx, session, authz.CapLeaseManage, ""); err != nil {
		return false, err
	}

	var removed bool
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = uc.repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if removed {
			uc.audit.Log(ctx, auditDomain.EventLeaseRevoke, map[string]any{"leaseId": id})
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Get retrieves a lease by ID.
func (uc *LeaseUseCase) Get(ctx context.Context, id string) (*leaseDomain.Lease, error) {
	return uc.repo.Get(ctx, id)
}

// ListByOwner returns all leases held by an owner.
func (uc *LeaseUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*leaseDomain.Lease, error) {
	return uc.repo.ListByOwner(ctx, ownerID)
}

// ListAll returns every lease.
func (uc *LeaseUseCase) ListAll(ctx context.Context) ([]*leaseDomain.Lease, error) {
	return uc.repo.ListAll(ctx)
}

// IsActiveOwnership reports whether the owner holds an active lease over the
// organism at the current instant. Implements authz.OwnershipChecker.
func (uc *LeaseUseCase) IsActiveOwnership(ctx context.Context, ownerID, organismID string) (bool, error) {
	return uc.repo.ActiveOwnershipExists(ctx, ownerID, organismID, uc.now().UTC())
}

// IssueToken signs a delegation token for an existing lease.
func (uc *LeaseUseCase) IssueToken(ctx context.Context, session *authz.Context, id string) (string, error) {
	if err := uc.require(ctx, session, authz.CapLeaseManage, ""); err != nil {
		return "", err
	}

	lease, err := uc.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return uc.signer.Sign(lease, nil)
}
