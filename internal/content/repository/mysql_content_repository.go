package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
)

// MySQLContentRepository implements read-only ContentItem lookup for MySQL.
// Media URLs are stored as a JSON array column.
type MySQLContentRepository struct {
	db *sql.DB
}

// Get retrieves a content item by type and platform-assigned ID.
// Returns ErrContentNotFound if the item does not exist.
func (m *MySQLContentRepository) Get(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
) (*contentDomain.ContentItem, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT content_type, content_id, title, summary, body, media_urls,
				     view_count, share_count, sensitivity_level, updated_at
			  FROM content_items WHERE content_type = ? AND content_id = ?`

	var item contentDomain.ContentItem
	var mediaURLs []byte

	err := querier.QueryRowContext(ctx, query, contentType, contentID).Scan(
		&item.ContentType,
		&item.ContentID,
		&item.Title,
		&item.Summary,
		&item.Body,
		&mediaURLs,
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

	if len(mediaURLs) > 0 {
		if err := json.Unmarshal(mediaURLs, &item.MediaURLs); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode media urls")
		}
	}

	return &item, nil
}

// NewMySQLContentRepository creates a new MySQL ContentItem repository.
func NewMySQLContentRepository(db *sql.DB) *MySQLContentRepository {
	return &MySQLContentRepository{db: db}
}
