// Package repository provides data persistence implementations for lifecycle events.
package repository

import (
	"context"
	"database/sql"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	"github.com/storyweave/syndication/internal/events/domain"
)

// PostgreSQLEventRepository handles lifecycle event persistence for PostgreSQL.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new lifecycle event.
func (r *PostgreSQLEventRepository) Create(ctx context.Context, event *domain.LifecycleEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO lifecycle_events (id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, event.ID, event.EventType, event.Payload, event.Status,
		event.Retries, event.LastError, event.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create lifecycle event")
	}
	return nil
}

// GetPendingEvents retrieves pending events oldest first, locking them so
// concurrent workers skip the same batch.
func (r *PostgreSQLEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.LifecycleEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at
			  FROM lifecycle_events
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.EventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.LifecycleEvent
	for rows.Next() {
		var event domain.LifecycleEvent

		err := rows.Scan(&event.ID, &event.EventType, &event.Payload, &event.Status,
			&event.Retries, &event.LastError, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan lifecycle event")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate lifecycle events")
	}

	return events, nil
}

// Update updates a lifecycle event.
func (r *PostgreSQLEventRepository) Update(ctx context.Context, event *domain.LifecycleEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE lifecycle_events
			  SET event_type = $1, payload = $2, status = $3, retries = $4, last_error = $5,
			      processed_at = $6, updated_at = NOW()
			  WHERE id = $7`

	_, err := querier.ExecContext(ctx, query, event.EventType, event.Payload, event.Status,
		event.Retries, event.LastError, event.ProcessedAt, event.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update lifecycle event")
	}
	return nil
}

// NewPostgreSQLEventRepository creates a new PostgreSQL lifecycle event repository.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}
