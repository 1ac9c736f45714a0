package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	syndicationUsecase "github.com/storyweave/syndication/internal/syndication/usecase"
)

// RunCleanAuditEntries deletes access audit entries older than the specified
// number of days.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditEntries(
	ctx context.Context,
	auditRepo syndicationUsecase.AuditEntryRepository,
	logger *slog.Logger,
	days int,
	format string,
	io IOTuple,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit entries", slog.Int("days", days))

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete audit entries: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"count": count,
			"days":  days,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		fmt.Fprintf(io.Writer, "Successfully deleted %d audit entry(ies) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
	)

	return nil
}
