// Package authz implements capability-based authorization with roles,
// per-session contexts, and lease-scoped delegation.
//
// Capabilities and roles are closed sets validated at construction. The
// decision logic lives in Enforcer; durable lease state is consulted through
// the OwnershipChecker interface so this package stays free of storage
// concerns.
package authz

import (
	"fmt"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

// Capability is an atomic permission identifier.
type Capability string

const (
	// CapDataRead allows reading non-restricted data.
	CapDataRead Capability = "data.read"

	// CapDataWrite allows writing non-restricted data.
	CapDataWrite Capability = "data.write"

	// CapDataAll allows full data access.
	CapDataAll Capability = "data.all"

	// CapDataReadPublic allows reading public data only.
	CapDataReadPublic Capability = "data.read.public"

	// CapSyncQueue allows queueing sync actions.
	CapSyncQueue Capability = "sync.queue"

	// CapSyncAll allows full sync control.
	CapSyncAll Capability = "sync.all"

	// CapOrganismManage allows installing, removing, or modifying organisms.
	CapOrganismManage Capability = "organism.manage"

	// CapLeaseManage allows managing leases and tenant assignments.
	CapLeaseManage Capability = "lease.manage"

	// CapSystemFull grants full substrate authority.
	CapSystemFull Capability = "system.full"
)

// capabilityDescriptions is the closed set of recognized capabilities.
var capabilityDescriptions = map[Capability]string{
	CapDataRead:       "Read non-restricted data",
	CapDataWrite:      "Write non-restricted data",
	CapDataAll:        "Full data access",
	CapDataReadPublic: "Read public data only",
	CapSyncQueue:      "Queue sync actions",
	CapSyncAll:        "Full sync control",
	CapOrganismManage: "Install, remove, or modify organisms",
	CapLeaseManage:    "Manage leases and tenant assignments",
	CapSystemFull:     "Full substrate authority",
}

// ParseCapability validates a raw identifier against the closed capability set.
// Returns ErrInvalidInput for unknown identifiers, moving validation to
// construction time instead of every check.
func ParseCapability(raw string) (Capability, error) {
	cap := Capability(raw)
	if _, ok := capabilityDescriptions[cap]; !ok {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown capability %q", raw))
	}
	return cap, nil
}

// CapabilityRegistry is a static lookup table of recognized capabilities.
// Initialized once per process; construct a fresh instance to reset.
type CapabilityRegistry struct {
	registry map[Capability]string
}

// NewCapabilityRegistry creates a registry holding the full capability set.
func NewCapabilityRegistry() *CapabilityRegistry {
	registry := make(map[Capability]string, len(capabilityDescriptions))
	for cap, description := range capabilityDescriptions {
		registry[cap] = description
	}
	return &CapabilityRegistry{registry: registry}
}

// Exists reports whether the capability is recognized.
func (r *CapabilityRegistry) Exists(cap Capability) bool {
	_, ok := r.registry[cap]
	return ok
}

// Describe returns the human-readable description of a capability.
func (r *CapabilityRegistry) Describe(cap Capability) (string, bool) {
	description, ok := r.registry[cap]
	return description, ok
}
