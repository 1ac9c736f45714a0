package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/storyweave/syndication/cmd/app/commands"
	"github.com/storyweave/syndication/internal/app"
	"github.com/storyweave/syndication/internal/config"
)

func getMaintenanceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-consents",
			Usage: "Mark due consents expired and revoke their tokens",
			Flags: []cli.Flag{
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

				revocationUseCase, err := container.RevocationUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredConsents(
					ctx,
					revocationUseCase,
					container.Logger(),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "clean-audit-entries",
			Usage: "Delete access audit entries older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete audit entries older than this many days",
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

				auditRepo, err := container.AuditEntryRepository()
				if err != nil {
					return err
				}

				return commands.RunCleanAuditEntries(
					ctx,
					auditRepo,
					container.Logger(),
					int(cmd.Int("days")),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
