// Package repository provides data persistence implementations for syndication entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	synDomain "github.com/storyweave/syndication/internal/syndication/domain"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// consentColumns is the canonical column list shared by all consent queries.
const consentColumns = `id, content_type, content_id, destination_site_id, status,
	allow_full_content, allow_media_assets, allow_analytics, permission_level,
	attribution_text, request_reason, expires_at, created_at, revoked_at, revoked_reason`

// PostgreSQLConsentRepository implements Consent persistence for PostgreSQL.
// The live-uniqueness invariant (at most one pending/active consent per
// (content_type, content_id, destination_site_id) triple) is enforced by a
// partial unique index, so two concurrent creates for the same pair cannot
// both succeed.
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new Consent. Returns ErrConsentDuplicate when a live
// consent already occupies the uniqueness slot for the triple.
func (p *PostgreSQLConsentRepository) Create(ctx context.Context, consent *synDomain.Consent) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO consents (` + consentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.ID,
		consent.ContentType,
		consent.ContentID,
		consent.DestinationSiteID,
		consent.Status,
		consent.Permissions.AllowFullContent,
		consent.Permissions.AllowMediaAssets,
		consent.Permissions.AllowAnalytics,
		consent.PermissionLevel,
		consent.AttributionText,
		consent.RequestReason,
		consent.ExpiresAt,
		consent.CreatedAt,
		consent.RevokedAt,
		consent.RevokedReason,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return synDomain.ErrConsentDuplicate
		}
		return apperrors.Wrap(err, "failed to create consent")
	}
	return nil
}

// Get retrieves a Consent by ID. Returns ErrConsentNotFound if absent.
func (p *PostgreSQLConsentRepository) Get(ctx context.Context, consentID uuid.UUID) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + consentColumns + ` FROM consents WHERE id = $1`

	return scanConsentRow(querier.QueryRowContext(ctx, query, consentID))
}

// GetLive retrieves the effectively live consent for a (content type,
// content ID, site) triple: pending or active and not past its TTL. Rows whose
// stored status is active but whose expiry has elapsed are invisible here even
// before the sweep rewrites them. Returns ErrConsentNotFound if none exists.
func (p *PostgreSQLConsentRepository) GetLive(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + consentColumns + ` FROM consents
			  WHERE content_type = $1 AND content_id = $2 AND destination_site_id = $3
			    AND status IN ('pending', 'active')
			    AND (expires_at IS NULL OR expires_at > $4)`

	return scanConsentRow(querier.QueryRowContext(ctx, query, contentType, contentID, siteID, now))
}

// GetLiveByContentAndSite retrieves the effectively live consent for a content
// item and site regardless of content type. Returns ErrConsentNotFound if none
// exists.
func (p *PostgreSQLConsentRepository) GetLiveByContentAndSite(
	ctx context.Context,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + consentColumns + ` FROM consents
			  WHERE content_id = $1 AND destination_site_id = $2
			    AND status IN ('pending', 'active')
			    AND (expires_at IS NULL OR expires_at > $3)
			  ORDER BY created_at DESC LIMIT 1`

	return scanConsentRow(querier.QueryRowContext(ctx, query, contentID, siteID, now))
}

// ExpireStale performs the compare-and-swap active -> expired for a consent
// whose TTL has elapsed but which still occupies the live-uniqueness slot for
// the triple. Returns true when a row was released, freeing the slot for a
// fresh insert.
func (p *PostgreSQLConsentRepository) ExpireStale(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents SET status = 'expired'
			  WHERE content_type = $1 AND content_id = $2 AND destination_site_id = $3
			    AND status = 'active' AND expires_at IS NOT NULL AND expires_at <= $4`

	result, err := querier.ExecContext(ctx, query, contentType, contentID, siteID, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to expire stale consent")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected > 0, nil
}

// Update modifies an existing Consent's mutable fields.
func (p *PostgreSQLConsentRepository) Update(ctx context.Context, consent *synDomain.Consent) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents
			  SET status = $1,
				  expires_at = $2,
				  revoked_at = $3,
				  revoked_reason = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.Status,
		consent.ExpiresAt,
		consent.RevokedAt,
		consent.RevokedReason,
		consent.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update consent")
	}
	return nil
}

// MarkRevoked performs the compare-and-swap transition active -> revoked.
// Returns false without error when the consent was not active, which callers
// treat as an idempotent no-op.
func (p *PostgreSQLConsentRepository) MarkRevoked(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
	revokedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents
			  SET status = 'revoked', revoked_at = $1, revoked_reason = $2
			  WHERE id = $3 AND status = 'active'`

	result, err := querier.ExecContext(ctx, query, revokedAt, reason, consentID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to revoke consent")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected > 0, nil
}

// ExpireDue persists the lazy active -> expired transition for consents whose
// TTL has elapsed and returns their IDs so callers can sweep bound tokens.
// This is storage hygiene only; validation never trusts the stored status alone.
func (p *PostgreSQLConsentRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents SET status = 'expired'
			  WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < $1
			  RETURNING id`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to expire consents")
	}
	defer rows.Close() //nolint:errcheck

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan expired consent id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate expired consents")
	}

	return ids, nil
}

// scanConsentRow scans a single consent row, translating sql.ErrNoRows to
// ErrConsentNotFound.
func scanConsentRow(row *sql.Row) (*synDomain.Consent, error) {
	var consent synDomain.Consent

	err := row.Scan(
		&consent.ID,
		&consent.ContentType,
		&consent.ContentID,
		&consent.DestinationSiteID,
		&consent.Status,
		&consent.Permissions.AllowFullContent,
		&consent.Permissions.AllowMediaAssets,
		&consent.Permissions.AllowAnalytics,
		&consent.PermissionLevel,
		&consent.AttributionText,
		&consent.RequestReason,
		&consent.ExpiresAt,
		&consent.CreatedAt,
		&consent.RevokedAt,
		&consent.RevokedReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, synDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get consent")
	}

	return &consent, nil
}

// NewPostgreSQLConsentRepository creates a new PostgreSQL Consent repository.
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{db: db}
}
