// Package domain defines the lease domain model.
//
// A lease is a time-bounded delegation of ownership over an organism to a
// subject (the owner). Leases back the lease-delegated scope rule of the
// enforcement engine and are the source material for delegation tokens.
package domain

import (
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/leasehold/internal/validation"
)

// Lease delegates ownership of an organism to an owner, optionally until an
// expiry instant. The id is immutable once created; revocation removes the
// record rather than mutating it.
type Lease struct {
	ID         string
	OwnerID    string
	OrganismID string
	CreatedAt  time.Time
	ExpiresAt  *time.Time
}

// NewLease validates the identifiers and builds a lease. The id is derived
// from owner, organism, and creation time, which guarantees uniqueness
// without a central counter. Identifier rules live here so every entry
// point, HTTP or CLI, enforces them identically.
func NewLease(ownerID, organismID string, expiresAt *time.Time, now time.Time) (*Lease, error) {
	if err := validateIdentifier("ownerId", ownerID); err != nil {
		return nil, err
	}
	if err := validateIdentifier("organismId", organismID); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Lease{
		ID:         fmt.Sprintf("%s:%s:%d", ownerID, organismID, now.UnixMilli()),
		OwnerID:    ownerID,
		OrganismID: organismID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}, nil
}

func validateIdentifier(field, value string) error {
	err := validation.Validate(value,
		validation.Required,
		customValidation.NotBlank,
		customValidation.NoWhitespace,
		customValidation.NoColon,
	)
	if err != nil {
		return customValidation.WrapValidationError(fmt.Errorf("%s %s", field, err.Error()))
	}
	return nil
}

// IsActive reports whether the lease is active at the given instant: the
// expiry is absent or strictly in the future.
func (l *Lease) IsActive(at time.Time) bool {
	return l.ExpiresAt == nil || l.ExpiresAt.After(at)
}
