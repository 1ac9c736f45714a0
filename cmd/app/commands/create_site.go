package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	registryUsecase "github.com/storyweave/syndication/internal/registry/usecase"
)

// RunCreateSite registers a new destination site in the registry. Outputs the
// site ID and slug in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateSite(
	ctx context.Context,
	siteUseCase registryUsecase.SiteUseCase,
	logger *slog.Logger,
	slug string,
	name string,
	trustTier string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating destination site",
		slog.String("slug", slug),
		slog.String("trust_tier", trustTier),
	)

	site, err := siteUseCase.CreateSite(ctx, registryUsecase.CreateSiteInput{
		Slug:      slug,
		Name:      name,
		TrustTier: trustTier,
	})
	if err != nil {
		return fmt.Errorf("failed to create destination site: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":         site.ID.String(),
			"slug":       site.Slug,
			"name":       site.Name,
			"status":     string(site.Status),
			"trust_tier": string(site.TrustTier),
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		fmt.Fprintf(io.Writer, "Destination site created successfully\n")
		fmt.Fprintf(io.Writer, "ID:         %s\n", site.ID.String())
		fmt.Fprintf(io.Writer, "Slug:       %s\n", site.Slug)
		fmt.Fprintf(io.Writer, "Name:       %s\n", site.Name)
		fmt.Fprintf(io.Writer, "Trust tier: %s\n", site.TrustTier)
	}

	logger.Info("destination site created", slog.String("site_id", site.ID.String()))
	return nil
}
