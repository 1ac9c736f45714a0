package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/storyweave/syndication/cmd/app/commands"
	"github.com/storyweave/syndication/internal/app"
	"github.com/storyweave/syndication/internal/config"
)

func getRegistryCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-site",
			Usage: "Register a new destination site",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "slug",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Unique site identifier (lowercase kebab-case, e.g. justicehub)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable site name",
				},
				&cli.StringFlag{
					Name:    "trust-tier",
					Aliases: []string{"t"},
					Value:   "standard",
					Usage:   "Trust tier: 'standard' (requires approval) or 'trusted' (auto-approves)",
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

				siteUseCase, err := container.SiteUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateSite(
					ctx,
					siteUseCase,
					container.Logger(),
					cmd.String("slug"),
					cmd.String("name"),
					cmd.String("trust-tier"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "suspend-site",
			Usage: "Suspend a destination site, blocking all of its access",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "slug",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Slug of the site to suspend",
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

				siteUseCase, err := container.SiteUseCase()
				if err != nil {
					return err
				}

				return commands.RunSuspendSite(
					ctx,
					siteUseCase,
					container.Logger(),
					cmd.String("slug"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
