package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	syndicationUsecase "github.com/storyweave/syndication/internal/syndication/usecase"
)

// RunCleanExpiredConsents sweeps consents whose TTL has elapsed, marking them
// expired and revoking their tokens. Expiry is also enforced lazily at
// validation time; the sweep keeps stored state and listings consistent.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredConsents(
	ctx context.Context,
	revocationUseCase syndicationUsecase.RevocationUseCase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	logger.Info("expiring due consents")

	count, err := revocationUseCase.ExpireConsents(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to expire consents: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{"count": count}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		fmt.Fprintf(io.Writer, "Expired %d consent(s)\n", count)
	}

	logger.Info("expiry sweep completed", slog.Int64("count", count))
	return nil
}
