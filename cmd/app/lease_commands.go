package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/leasehold/cmd/app/commands"
	"github.com/allisson/leasehold/internal/app"
	"github.com/allisson/leasehold/internal/config"
)

func getLeaseCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-lease",
			Usage: "Delegate an organism to an owner for an optional duration",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owner (subject) identifier",
				},
				&cli.StringFlag{
					Name:     "organism",
					Aliases:  []string{"g"},
					Required: true,
					Usage:    "Organism identifier to delegate",
				},
				&cli.DurationFlag{
					Name:    "ttl",
					Aliases: []string{"t"},
					Usage:   "Lease duration (e.g. 24h); omit for a lease without expiry",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				leaseUseCase, err := container.LeaseUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateLease(
					ctx,
					leaseUseCase,
					container.Logger(),
					cmd.String("owner"),
					cmd.String("organism"),
					cmd.Duration("ttl"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "list-leases",
			Usage: "List leases, optionally filtered by owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "owner",
					Aliases: []string{"o"},
					Usage:   "Only show leases held by this owner",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				leaseUseCase, err := container.LeaseUseCase()
				if err != nil {
					return err
				}

				return commands.RunListLeases(
					ctx,
					leaseUseCase,
					container.Logger(),
					cmd.String("owner"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "revoke-lease",
			Usage: "Revoke a lease by id",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Lease ID",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				leaseUseCase, err := container.LeaseUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeLease(
					ctx,
					leaseUseCase,
					container.Logger(),
					cmd.String("id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "issue-token",
			Usage: "Sign a delegation token for an existing lease",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Lease ID",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				leaseUseCase, err := container.LeaseUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					ctx,
					leaseUseCase,
					container.Logger(),
					cmd.String("id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
