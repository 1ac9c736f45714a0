package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	synDomain "github.com/storyweave/syndication/internal/syndication/domain"
)

// MySQLAuditEntryRepository implements access audit persistence for MySQL.
type MySQLAuditEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry.
func (m *MySQLAuditEntryRepository) Create(ctx context.Context, entry *synDomain.AccessAuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO access_audit_entries (id, token_id, content_id, outcome, request_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	var tokenID any
	if entry.TokenID != nil {
		tokenID = entry.TokenID.String()
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID.String(),
		tokenID,
		entry.ContentID,
		entry.Outcome,
		entry.RequestID,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// DeleteOlderThan removes audit entries created before the cutoff and returns
// the number of rows deleted.
func (m *MySQLAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM access_audit_entries WHERE created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// NewMySQLAuditEntryRepository creates a new MySQL audit entry repository.
func NewMySQLAuditEntryRepository(db *sql.DB) *MySQLAuditEntryRepository {
	return &MySQLAuditEntryRepository{db: db}
}
