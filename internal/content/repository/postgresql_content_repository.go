// Package repository provides read-only access to platform-owned content items.
// This subsystem never writes to the content tables; it only reads the body
// and cultural sensitivity metadata needed by the access gateway.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
)

// PostgreSQLContentRepository implements read-only ContentItem lookup for PostgreSQL.
type PostgreSQLContentRepository struct {
	db *sql.DB
}

// Get retrieves a content item by type and platform-assigned ID.
// Returns ErrContentNotFound if the item does not exist.
func (p *PostgreSQLContentRepository) Get(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
) (*contentDomain.ContentItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT content_type, content_id, title, summary, body, media_urls,
				     view_count, share_count, sensitivity_level, updated_at
			  FROM content_items WHERE content_type = $1 AND content_id = $2`

	var item contentDomain.ContentItem

	err := querier.QueryRowContext(ctx, query, contentType, contentID).Scan(
		&item.ContentType,
		&item.ContentID,
		&item.Title,
		&item.Summary,
		&item.Body,
		pq.Array(&item.MediaURLs),
		&item.ViewCount,
		&item.ShareCount,
		&item.SensitivityLevel,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contentDomain.ErrContentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get content item")
	}

	return &item, nil
}

// NewPostgreSQLContentRepository creates a new PostgreSQL ContentItem repository.
func NewPostgreSQLContentRepository(db *sql.DB) *PostgreSQLContentRepository {
	return &PostgreSQLContentRepository{db: db}
}
