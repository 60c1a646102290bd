// Package http provides HTTP handlers for lease management operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/leasehold/internal/authz"
	apperrors "github.com/allisson/leasehold/internal/errors"
	"github.com/allisson/leasehold/internal/httputil"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
	"github.com/allisson/leasehold/internal/lease/http/dto"
	leaseUseCase "github.com/allisson/leasehold/internal/lease/usecase"
	customValidation "github.com/allisson/leasehold/internal/validation"
)

// LeaseHandler handles HTTP requests for lease management operations.
type LeaseHandler struct {
	leaseUseCase leaseUseCase.LeaseManager
	logger       *slog.Logger
}

// NewLeaseHandler creates a new lease handler.
func NewLeaseHandler(uc leaseUseCase.LeaseManager, logger *slog.Logger) *LeaseHandler {
	return &LeaseHandler{leaseUseCase: uc, logger: logger}
}

// session pulls the authenticated authorization context set by the admin
// auth middleware.
func session(c *gin.Context) (*authz.Context, bool) {
	return authz.SessionFromContext(c.Request.Context())
}

// CreateHandler issues a new lease.
// POST /v1/leases - returns 201 Created with the lease.
func (h *LeaseHandler) CreateHandler(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var req dto.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	lease, err := h.leaseUseCase.Create(c.Request.Context(), sess, leaseUseCase.CreateLeaseInput{
		OwnerID:    req.OwnerID,
		OrganismID: req.OrganismID,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapLeaseToResponse(lease))
}

// ListHandler lists leases, optionally filtered by owner.
// GET /v1/leases?ownerId= - returns 200 OK with a lease array.
func (h *LeaseHandler) ListHandler(c *gin.Context) {
	if _, ok := session(c); !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var leases []*leaseDomain.Lease
	var err error

	if ownerID := c.Query("ownerId"); ownerID != "" {
		leases, err = h.leaseUseCase.ListByOwner(c.Request.Context(), ownerID)
	} else {
		leases, err = h.leaseUseCase.ListAll(c.Request.Context())
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLeasesToResponse(leases))
}

// RevokeHandler revokes a lease by ID.
// POST /v1/leases/:id/revoke - returns 200 OK with {ok}.
func (h *LeaseHandler) RevokeHandler(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	removed, err := h.leaseUseCase.Revoke(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevokeLeaseResponse{OK: removed})
}

// TokenHandler issues a delegation token for a lease.
// POST /v1/leases/:id/token - returns 200 OK with {token}.
func (h *LeaseHandler) TokenHandler(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	token, err := h.leaseUseCase.IssueToken(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
