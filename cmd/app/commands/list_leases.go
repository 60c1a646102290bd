package commands

import (
	"context"
	"fmt"
	"log/slog"

	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// RunListLeases lists leases, optionally filtered by owner. Outputs one line
// per lease in text format, or a JSON array.
func RunListLeases(
	ctx context.Context,
	leases LeaseManager,
	logger *slog.Logger,
	ownerID string,
	format string,
	io IOTuple,
) error {
	var (
		found []*leaseDomain.Lease
		err   error
	)
	if ownerID != "" {
		found, err = leases.ListByOwner(ctx, ownerID)
	} else {
		found, err = leases.ListAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list leases: %w", err)
	}

	if format == "json" {
		outputs := make([]leaseOutput, 0, len(found))
		for _, lease := range found {
			outputs = append(outputs, leaseToOutput(lease))
		}
		writeJSON(outputs, io.Writer)
		return nil
	}

	if len(found) == 0 {
		_, _ = fmt.Fprintln(io.Writer, "No leases found")
		return nil
	}
	for _, lease := range found {
		writeLeaseText(lease, io.Writer)
		_, _ = fmt.Fprintln(io.Writer)
	}

	logger.Info("listed leases", slog.Int("count", len(found)))
	return nil
}
