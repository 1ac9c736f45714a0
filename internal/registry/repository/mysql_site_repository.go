package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLSiteRepository implements DestinationSite persistence for MySQL.
// UUIDs are stored as CHAR(36) strings with transaction support via database.GetTx().
type MySQLSiteRepository struct {
	db *sql.DB
}

// Create inserts a new DestinationSite. Returns ErrSiteAlreadyExists if the
// slug is already registered.
func (m *MySQLSiteRepository) Create(ctx context.Context, site *registryDomain.DestinationSite) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO destination_sites (id, slug, name, status, trust_tier, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		site.ID.String(),
		site.Slug,
		site.Name,
		site.Status,
		site.TrustTier,
		site.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return registryDomain.ErrSiteAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create destination site")
	}
	return nil
}

// Get retrieves a DestinationSite by ID. Returns ErrSiteNotFound if absent.
func (m *MySQLSiteRepository) Get(
	ctx context.Context,
	siteID uuid.UUID,
) (*registryDomain.DestinationSite, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, slug, name, status, trust_tier, created_at
			  FROM destination_sites WHERE id = ?`

	return m.scanSite(querier.QueryRowContext(ctx, query, siteID.String()))
}

// GetBySlug retrieves a DestinationSite by its unique slug. Returns
// ErrSiteNotFound if absent.
func (m *MySQLSiteRepository) GetBySlug(
	ctx context.Context,
	slug string,
) (*registryDomain.DestinationSite, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, slug, name, status, trust_tier, created_at
			  FROM destination_sites WHERE slug = ?`

	return m.scanSite(querier.QueryRowContext(ctx, query, slug))
}

// UpdateStatus changes a site's operational status. Returns ErrSiteNotFound
// if the site does not exist.
func (m *MySQLSiteRepository) UpdateStatus(
	ctx context.Context,
	siteID uuid.UUID,
	status registryDomain.SiteStatus,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE destination_sites SET status = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, status, siteID.String())
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
func (m *MySQLSiteRepository) scanSite(row *sql.Row) (*registryDomain.DestinationSite, error) {
	var site registryDomain.DestinationSite
	var id string

	err := row.Scan(
		&id,
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

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse destination site id")
	}
	site.ID = parsed

	return &site, nil
}

// NewMySQLSiteRepository creates a new MySQL DestinationSite repository.
func NewMySQLSiteRepository(db *sql.DB) *MySQLSiteRepository {
	return &MySQLSiteRepository{db: db}
}
