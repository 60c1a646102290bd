package authz

import (
	"fmt"
	"slices"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

// Role names a flat set of capabilities. Roles do not nest.
type Role string

const (
	// RoleSystem holds substrate-wide management capabilities. Note that
	// holding this role does not bypass enforcement; the sovereign override
	// requires an elevated context (see Elevated).
	RoleSystem Role = "system"

	// RoleUser is a regular interactive subject.
	RoleUser Role = "user"

	// RoleOrganism is a managed resource acting on its own behalf.
	RoleOrganism Role = "organism"

	// RoleGuest is an unauthenticated subject.
	RoleGuest Role = "guest"
)

// roleCapabilities is the closed role table.
var roleCapabilities = map[Role][]Capability{
	RoleSystem:   {CapSystemFull, CapDataAll, CapSyncAll, CapOrganismManage, CapLeaseManage},
	RoleUser:     {CapDataRead, CapDataWrite, CapSyncQueue},
	RoleOrganism: {CapDataRead, CapSyncQueue},
	RoleGuest:    {CapDataReadPublic},
}

// ParseRole validates a raw identifier against the closed role set.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := roleCapabilities[role]; !ok {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown role %q", raw))
	}
	return role, nil
}

// RoleRegistry is a static lookup table mapping roles to capability sets.
// Initialized once per process; construct a fresh instance to reset.
type RoleRegistry struct {
	registry map[Role][]Capability
}

// NewRoleRegistry creates a registry holding the full role table.
func NewRoleRegistry() *RoleRegistry {
	registry := make(map[Role][]Capability, len(roleCapabilities))
	for role, caps := range roleCapabilities {
		registry[role] = slices.Clone(caps)
	}
	return &RoleRegistry{registry: registry}
}

// Capabilities returns the capability set of a role, or false for unknown roles.
func (r *RoleRegistry) Capabilities(role Role) ([]Capability, bool) {
	caps, ok := r.registry[role]
	if !ok {
		return nil, false
	}
	return slices.Clone(caps), true
}

// Grants reports whether the role's capability set contains the capability.
func (r *RoleRegistry) Grants(role Role, cap Capability) bool {
	caps, ok := r.registry[role]
	if !ok {
		return false
	}
	return slices.Contains(caps, cap)
}
