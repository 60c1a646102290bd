package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/leasehold/cmd/app/commands"
	"github.com/allisson/leasehold/internal/app"
	"github.com/allisson/leasehold/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:    "migrate",
			Aliases: []string{"install"},
			Usage:   "Initialize the database by running migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DatabasePath)
			},
		},
		{
			Name:  "rotate-secret",
			Usage: "Replace the token signing secret, invalidating all delegation tokens",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				auditUseCase, err := container.AuditUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateSecret(
					ctx,
					container.TokenService(),
					auditUseCase,
					container.Logger(),
					commands.DefaultIO(),
				)
			},
		},
	}
}
