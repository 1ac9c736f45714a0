package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	synDomain "github.com/storyweave/syndication/internal/syndication/domain"
)

// PostgreSQLAuditEntryRepository implements access audit persistence for
// PostgreSQL. The table is append-only; rows are only removed by the
// retention sweep.
type PostgreSQLAuditEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry.
func (p *PostgreSQLAuditEntryRepository) Create(ctx context.Context, entry *synDomain.AccessAuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_audit_entries (id, token_id, content_id, outcome, request_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.TokenID,
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
func (p *PostgreSQLAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM access_audit_entries WHERE created_at < $1`

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

// NewPostgreSQLAuditEntryRepository creates a new PostgreSQL audit entry repository.
func NewPostgreSQLAuditEntryRepository(db *sql.DB) *PostgreSQLAuditEntryRepository {
	return &PostgreSQLAuditEntryRepository{db: db}
}
