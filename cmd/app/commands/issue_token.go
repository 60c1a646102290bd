package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/leasehold/internal/authz"
)

// RunIssueToken signs a delegation token for an existing lease. The token
// carries the lease claims and inherits the lease expiry.
func RunIssueToken(
	ctx context.Context,
	leases LeaseManager,
	logger *slog.Logger,
	id string,
	format string,
	io IOTuple,
) error {
	token, err := leases.IssueToken(ctx, authz.Elevated("cli"), id)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if format == "json" {
		writeJSON(map[string]string{"token": token}, io.Writer)
	} else {
		_, _ = fmt.Fprintln(io.Writer, token)
	}

	logger.Info("delegation token issued", slog.String("lease_id", id))
	return nil
}
