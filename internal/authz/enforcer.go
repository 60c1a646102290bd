package authz

import (
	"context"
	"fmt"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

// PermissionDeniedError is the single authorization failure kind. It is
// always recoverable by the caller (retry after acquiring the right role or
// scope) and unwraps to ErrForbidden for HTTP mapping.
type PermissionDeniedError struct {
	Capability Capability
	Scope      string
}

func (e *PermissionDeniedError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("permission denied: missing capability %s for scope %s", e.Capability, e.Scope)
	}
	return fmt.Sprintf("permission denied: missing capability %s", e.Capability)
}

func (e *PermissionDeniedError) Unwrap() error {
	return apperrors.ErrForbidden
}

// OwnershipChecker answers expiry-aware lease ownership queries.
// Implemented by the lease use case.
type OwnershipChecker interface {
	IsActiveOwnership(ctx context.Context, ownerID, organismID string) (bool, error)
}

// Enforcer combines the capability registry, role registry, session context,
// and lease ownership into allow/deny decisions.
type Enforcer struct {
	capabilities *CapabilityRegistry
	roles        *RoleRegistry
	ownership    OwnershipChecker
}

// NewEnforcer creates an Enforcer. ownership may be nil, in which case
// lease-delegated scope checks always deny.
func NewEnforcer(
	capabilities *CapabilityRegistry,
	roles *RoleRegistry,
	ownership OwnershipChecker,
) *Enforcer {
	return &Enforcer{
		capabilities: capabilities,
		roles:        roles,
		ownership:    ownership,
	}
}

// Check decides whether the session context may exercise the capability,
// optionally restricted to an organism scope. Evaluation order:
//
//  1. Elevated contexts are always allowed.
//  2. Unrecognized capabilities are denied.
//  3. Unrecognized roles are denied.
//  4. If the role grants the capability: no requested scope allows; a direct
//     organism-scope match allows; an active lease held by the subject over
//     the requested scope allows; otherwise deny.
//  5. Ad-hoc granted capabilities allow.
//
// Ownership lookups that fail are treated as deny.
func (e *Enforcer) Check(ctx context.Context, session *Context, cap Capability, scope string) bool {
	if session.IsElevated() {
		return true
	}

	if !e.capabilities.Exists(cap) {
		return false
	}

	caps, ok := e.roles.Capabilities(session.Role())
	if !ok {
		return false
	}

	for _, roleCap := range caps {
		if roleCap != cap {
			continue
		}

		if scope == "" {
			return true
		}
		if session.OrganismScope() == scope {
			return true
		}
		if session.SubjectID() != "" && e.ownership != nil {
			owns, err := e.ownership.IsActiveOwnership(ctx, session.SubjectID(), scope)
			if err == nil && owns {
				return true
			}
		}
		return false
	}

	return session.HasDynamic(cap)
}

// Require returns a PermissionDeniedError when Check denies. Callers must
// invoke Require before any state-mutating operation and must not perform
// partial mutation when it fails.
func (e *Enforcer) Require(ctx context.Context, session *Context, cap Capability, scope string) error {
	if e.Check(ctx, session, cap, scope) {
		return nil
	}
	return &PermissionDeniedError{Capability: cap, Scope: scope}
}
