// Package http provides the administrative HTTP server, its middleware, and
// the metrics server.
package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/leasehold/internal/authz"
	leaseService "github.com/allisson/leasehold/internal/lease/service"
)

// TokenVerifier verifies delegation bearer tokens.
type TokenVerifier interface {
	Verify(token string) leaseService.VerifyResult
}

// AdminAuthMiddleware authenticates administrative requests.
//
// Two credential forms are accepted:
//   - X-Admin-Token header matching the configured shared secret, compared
//     in constant time. Grants an elevated session.
//   - Authorization bearer carrying a valid delegation token. Grants a user
//     session scoped to the token's subject and organism.
//
// Missing or invalid credentials yield 403 and abort the chain. The
// resulting session is stored on the request context for handlers.
func AdminAuthMiddleware(adminToken string, verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("X-Admin-Token"); header != "" && adminToken != "" {
			if subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) == 1 {
				session := authz.Elevated("admin")
				c.Request = c.Request.WithContext(authz.WithSession(c.Request.Context(), session))
				c.Next()
				return
			}

			logger.Debug("admin authentication failed: shared secret mismatch")
			forbid(c)
			return
		}

		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("admin authentication failed: no usable credentials")
			forbid(c)
			return
		}

		result := verifier.Verify(authHeader[len(bearerPrefix):])
		if !result.Valid {
			logger.Debug("admin authentication failed: invalid delegation token",
				slog.Any("error", result.Err))
			forbid(c)
			return
		}

		session := authz.NewContext(authz.RoleUser)
		session.SetSubjectID(result.Claims.OwnerID)
		session.SetOrganismScope(result.Claims.OrganismID)
		c.Request = c.Request.WithContext(authz.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func forbid(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":   "forbidden",
		"message": "Valid administrative credentials are required",
	})
	c.Abort()
}

// CustomLoggerMiddleware logs each request with its request id.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}
