package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	"github.com/storyweave/syndication/internal/events/domain"
)

// MySQLEventRepository handles lifecycle event persistence for MySQL.
type MySQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new lifecycle event.
func (r *MySQLEventRepository) Create(ctx context.Context, event *domain.LifecycleEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO lifecycle_events (id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, event.ID.String(), event.EventType, event.Payload, event.Status,
		event.Retries, event.LastError, event.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create lifecycle event")
	}
	return nil
}

// GetPendingEvents retrieves pending events oldest first, locking them so
// concurrent workers skip the same batch.
func (r *MySQLEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.LifecycleEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at
			  FROM lifecycle_events
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.EventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.LifecycleEvent
	for rows.Next() {
		var event domain.LifecycleEvent
		var id string

		err := rows.Scan(&id, &event.EventType, &event.Payload, &event.Status,
			&event.Retries, &event.LastError, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan lifecycle event")
		}
		if event.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse event id")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate lifecycle events")
	}

	return events, nil
}

// Update updates a lifecycle event.
func (r *MySQLEventRepository) Update(ctx context.Context, event *domain.LifecycleEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE lifecycle_events
			  SET event_type = ?, payload = ?, status = ?, retries = ?, last_error = ?,
			      processed_at = ?, updated_at = NOW()
			  WHERE id = ?`

	_, err := querier.ExecContext(ctx, query, event.EventType, event.Payload, event.Status,
		event.Retries, event.LastError, event.ProcessedAt, event.ID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update lifecycle event")
	}
	return nil
}

// NewMySQLEventRepository creates a new MySQL lifecycle event repository.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}
