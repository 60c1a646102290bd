package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/allisson/leasehold/internal/authz"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
	leaseUseCase "github.com/allisson/leasehold/internal/lease/usecase"
)

// LeaseManager is the lease use case surface the CLI commands depend on.
type LeaseManager interface {
	Create(ctx context.Context, session *authz.Context, input leaseUseCase.CreateLeaseInput) (*leaseDomain.Lease, error)
	ListAll(ctx context.Context) ([]*leaseDomain.Lease, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*leaseDomain.Lease, error)
	Revoke(ctx context.Context, session *authz.Context, id string) (bool, error)
	IssueToken(ctx context.Context, session *authz.Context, id string) (string, error)
}

// RunCreateLease creates a lease delegating an organism to an owner. A zero
// ttl creates a lease without expiry. Outputs the lease in either text or
// JSON format.
func RunCreateLease(
	ctx context.Context,
	leases LeaseManager,
	logger *slog.Logger,
	ownerID string,
	organismID string,
	ttl time.Duration,
	format string,
	io IOTuple,
) error {
	logger.Info("creating lease",
		slog.String("owner_id", ownerID),
		slog.String("organism_id", organismID),
	)

	input := leaseUseCase.CreateLeaseInput{
		OwnerID:    ownerID,
		OrganismID: organismID,
	}
	if ttl > 0 {
		expiresAt := time.Now().UTC().Add(ttl)
		input.ExpiresAt = &expiresAt
	}

	lease, err := leases.Create(ctx, authz.Elevated("cli"), input)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if format == "json" {
		writeJSON(leaseToOutput(lease), io.Writer)
	} else {
		writeLeaseText(lease, io.Writer)
	}

	logger.Info("lease created successfully", slog.String("lease_id", lease.ID))
	return nil
}

type leaseOutput struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"ownerId"`
	OrganismID string  `json:"organismId"`
	CreatedAt  string  `json:"createdAt"`
	ExpiresAt  *string `json:"expiresAt,omitempty"`
}

func leaseToOutput(lease *leaseDomain.Lease) leaseOutput {
	out := leaseOutput{
		ID:         lease.ID,
		OwnerID:    lease.OwnerID,
		OrganismID: lease.OrganismID,
		CreatedAt:  lease.CreatedAt.Format(time.RFC3339),
	}
	if lease.ExpiresAt != nil {
		expiresAt := lease.ExpiresAt.Format(time.RFC3339)
		out.ExpiresAt = &expiresAt
	}
	return out
}

func writeLeaseText(lease *leaseDomain.Lease, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Lease ID: %s\n", lease.ID)
	_, _ = fmt.Fprintf(writer, "Owner: %s\n", lease.OwnerID)
	_, _ = fmt.Fprintf(writer, "Organism: %s\n", lease.OrganismID)
	if lease.ExpiresAt != nil {
		_, _ = fmt.Fprintf(writer, "Expires: %s\n", lease.ExpiresAt.Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintln(writer, "Expires: never")
	}
}
