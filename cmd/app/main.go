// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Syndication consent and capability token service",
		Version: version,
	}
	cmd.Commands = append(cmd.Commands, getSystemCommands(version)...)
	cmd.Commands = append(cmd.Commands, getRegistryCommands()...)
	cmd.Commands = append(cmd.Commands, getMaintenanceCommands()...)

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
