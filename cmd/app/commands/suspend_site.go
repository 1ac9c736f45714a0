package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	registryUsecase "github.com/storyweave/syndication/internal/registry/usecase"
)

// RunSuspendSite suspends a destination site by slug. Suspended sites fail
// closed: new consents are rejected and existing tokens stop resolving.
//
// Requirements: Database must be migrated and accessible.
func RunSuspendSite(
	ctx context.Context,
	siteUseCase registryUsecase.SiteUseCase,
	logger *slog.Logger,
	slug string,
	format string,
	io IOTuple,
) error {
	logger.Info("suspending destination site", slog.String("slug", slug))

	site, err := siteUseCase.SuspendSite(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to suspend destination site: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":     site.ID.String(),
			"slug":   site.Slug,
			"status": string(site.Status),
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		fmt.Fprintf(io.Writer, "Destination site %q suspended\n", site.Slug)
	}

	logger.Info("destination site suspended", slog.String("site_id", site.ID.String()))
	return nil
}
