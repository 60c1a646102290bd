// Package http provides the HTTP handler for reading the audit sink.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditUseCase "github.com/allisson/leasehold/internal/audit/usecase"
	"github.com/allisson/leasehold/internal/authz"
	apperrors "github.com/allisson/leasehold/internal/errors"
	"github.com/allisson/leasehold/internal/httputil"
)

// AuditEventResponse represents one audit record in API responses.
type AuditEventResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditHandler handles HTTP requests for the audit trail.
type AuditHandler struct {
	auditUseCase *auditUseCase.AuditUseCase
	defaultLimit int
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler. defaultLimit bounds the
// response when the caller does not pass an explicit limit.
func NewAuditHandler(uc *auditUseCase.AuditUseCase, defaultLimit int, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{auditUseCase: uc, defaultLimit: defaultLimit, logger: logger}
}

// ListHandler returns the most recent audit records, oldest first.
// GET /v1/audit?limit=N
func (h *AuditHandler) ListHandler(c *gin.Context) {
	if _, ok := authz.SessionFromContext(c.Request.Context()); !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.HandleValidationErrorGin(
				c,
				apperrors.New("limit must be a positive integer"),
				h.logger,
			)
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	events, err := h.auditUseCase.ListRecent(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	out := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, AuditEventResponse{
			ID:        event.ID.String(),
			EventType: event.EventType,
			Details:   event.Details,
			CreatedAt: event.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
