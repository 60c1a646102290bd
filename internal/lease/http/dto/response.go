package dto

import (
	"time"

	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// LeaseResponse represents a lease in API responses.
type LeaseResponse struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	OrganismID string     `json:"organismId"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// MapLeaseToResponse converts a domain lease to its API representation.
func MapLeaseToResponse(lease *leaseDomain.Lease) LeaseResponse {
	return LeaseResponse{
		ID:         lease.ID,
		OwnerID:    lease.OwnerID,
		OrganismID: lease.OrganismID,
		CreatedAt:  lease.CreatedAt,
		ExpiresAt:  lease.ExpiresAt,
	}
}

// MapLeasesToResponse converts a lease list, never returning a null slice.
func MapLeasesToResponse(leases []*leaseDomain.Lease) []LeaseResponse {
	out := make([]LeaseResponse, 0, len(leases))
	for _, lease := range leases {
		out = append(out, MapLeaseToResponse(lease))
	}
	return out
}

// RevokeLeaseResponse reports whether a revocation removed a lease.
type RevokeLeaseResponse struct {
	OK bool `json:"ok"`
}

// TokenResponse carries a signed delegation token.
type TokenResponse struct {
	Token string `json:"token"`
}
