package commands

import (
	"context"
	"fmt"
	"log/slog"

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
)

// SecretRotator rotates the token signing secret.
type SecretRotator interface {
	RotateSecret() error
}

// Auditor records audit events.
type Auditor interface {
	Log(ctx context.Context, eventType string, details map[string]any)
}

// RunRotateSecret replaces the token signing secret with a freshly generated
// one. All outstanding delegation tokens stop verifying immediately.
func RunRotateSecret(
	ctx context.Context,
	rotator SecretRotator,
	audit Auditor,
	logger *slog.Logger,
	io IOTuple,
) error {
	if err := rotator.RotateSecret(); err != nil {
		return fmt.Errorf("failed to rotate signing secret: %w", err)
	}

	audit.Log(ctx, auditDomain.EventSecretRotate, nil)

	_, _ = fmt.Fprintln(io.Writer, "Signing secret rotated. Existing delegation tokens are now invalid.")
	logger.Info("signing secret rotated")
	return nil
}
