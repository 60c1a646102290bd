package domain

import (
	"github.com/allisson/leasehold/internal/errors"
)

// Lease domain errors.
var (
	// ErrLeaseNotFound indicates a lease with the specified ID was not found.
	ErrLeaseNotFound = errors.Wrap(errors.ErrNotFound, "lease not found")
)
