package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/leasehold/internal/authz"
)

// RunRevokeLease revokes a lease by id. Reports whether a lease was actually
// removed, so revoking an already absent lease is not an error.
func RunRevokeLease(
	ctx context.Context,
	leases LeaseManager,
	logger *slog.Logger,
	id string,
	format string,
	io IOTuple,
) error {
	removed, err := leases.Revoke(ctx, authz.Elevated("cli"), id)
	if err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}

	if format == "json" {
		writeJSON(map[string]bool{"ok": removed}, io.Writer)
	} else if removed {
		_, _ = fmt.Fprintf(io.Writer, "Lease %s revoked\n", id)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Lease %s not found\n", id)
	}

	logger.Info("lease revocation finished",
		slog.String("lease_id", id),
		slog.Bool("removed", removed),
	)
	return nil
}
