// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/leasehold/internal/validation"
)

// CreateLeaseRequest contains the parameters for issuing a new lease.
type CreateLeaseRequest struct {
	OwnerID    string     `json:"ownerId"`
	OrganismID string     `json:"organismId"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Validate checks if the create lease request is valid.
func (r *CreateLeaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OwnerID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			customValidation.NoColon,
		),
		validation.Field(&r.OrganismID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			customValidation.NoColon,
		),
	)
}
