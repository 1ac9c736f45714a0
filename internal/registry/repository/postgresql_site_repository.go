// Package repository provides data persistence implementations for destination sites.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLSiteRepository implements DestinationSite persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLSiteRepository struct {
	db *sql.DB
}

// Create inserts a new DestinationSite. Returns ErrSiteAlreadyExists if the
// slug is already registered.
func (p *PostgreSQLSiteRepository) Create(ctx context.Context, site *registryDomain.DestinationSite) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO destination_sites (id, slug, name, status, trust_tier, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		site.ID,
		site.Slug,
		site.Name,
		site.Status,
		site.TrustTier,
		site.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return registryDomain.ErrSiteAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create destination site")
	}
	return nil
}

// Get retrieves a DestinationSite by ID. Returns ErrSiteNotFound if absent.
func (p *PostgreSQLSiteRepository) Get(
	ctx context.Context,
	siteID uuid.UUID,
) (*registryDomain.DestinationSite, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, slug, name, status, trust_tier, created_at
			  FROM destination_sites WHERE id = $1`

	return p.scanSite(querier.QueryRowContext(ctx, query, siteID))
}

// GetBySlug retrieves a DestinationSite by its unique slug. Returns
// ErrSiteNotFound if absent.
func (p *PostgreSQLSiteRepository) GetBySlug(
	ctx context.Context,
	slug string,
) (*registryDomain.DestinationSite, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, slug, name, status, trust_tier, created_at
			  FROM destination_sites WHERE slug = $1`

	return p.scanSite(querier.QueryRowContext(ctx, query, slug))
}

// UpdateStatus changes a site's operational status. Returns ErrSiteNotFound
// if the site does not exist.
func (p *PostgreSQLSiteRepository) UpdateStatus(
	ctx context.Context,
	siteID uuid.UUID,
	status registryDomain.SiteStatus,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE destination_sites SET status = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, status, siteID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update destination site status")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return registryDomain.ErrSiteNotFound
	}
	return nil
}

// scanSite scans a single site row, translating sql.ErrNoRows to ErrSiteNotFound.
func (p *PostgreSQLSiteRepository) scanSite(row *sql.Row) (*registryDomain.DestinationSite, error) {
	var site registryDomain.DestinationSite

	err := row.Scan(
		&site.ID,
		&site.Slug,
		&site.Name,
		&site.Status,
		&site.TrustTier,
		&site.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrSiteNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get destination site")
	}

	return &site, nil
}

// NewPostgreSQLSiteRepository creates a new PostgreSQL DestinationSite repository.
func NewPostgreSQLSiteRepository(db *sql.DB) *PostgreSQLSiteRepository {
	return &PostgreSQLSiteRepository{db: db}
}
