package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	synDomain "github.com/storyweave/syndication/internal/syndication/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLConsentRepository implements Consent persistence for MySQL. MySQL has
// no partial unique indexes, so the live-uniqueness invariant is enforced
// with a stored generated live_marker column included in a composite unique
// key; the marker is NULL for revoked and expired rows, which MySQL excludes
// from uniqueness.
type MySQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new Consent. Returns ErrConsentDuplicate when a live
// consent already occupies the uniqueness slot for the triple.
func (m *MySQLConsentRepository) Create(ctx context.Context, consent *synDomain.Consent) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO consents (id, content_type, content_id, destination_site_id, status,
				allow_full_content, allow_media_assets, allow_analytics, permission_level,
				attribution_text, request_reason, expires_at, created_at, revoked_at, revoked_reason)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.ID.String(),
		consent.ContentType,
		consent.ContentID,
		consent.DestinationSiteID.String(),
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return synDomain.ErrConsentDuplicate
		}
		return apperrors.Wrap(err, "failed to create consent")
	}
	return nil
}

// Get retrieves a Consent by ID. Returns ErrConsentNotFound if absent.
func (m *MySQLConsentRepository) Get(ctx context.Context, consentID uuid.UUID) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, content_type, content_id, destination_site_id, status,
				allow_full_content, allow_media_assets, allow_analytics, permission_level,
				attribution_text, request_reason, expires_at, created_at, revoked_at, revoked_reason
			  FROM consents WHERE id = ?`

	return scanMySQLConsentRow(querier.QueryRowContext(ctx, query, consentID.String()))
}

// GetLive retrieves the pending or active consent for a (content type,
// content ID, site) triple. Returns ErrConsentNotFound if no live consent exists.
func (m *MySQLConsentRepository) GetLive(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, content_type, content_id, destination_site_id, status,
				allow_full_content, allow_media_assets, allow_analytics, permission_level,
				attribution_text, request_reason, expires_at, created_at, revoked_at, revoked_reason
			  FROM consents
			  WHERE content_type = ? AND content_id = ? AND destination_site_id = ?
			    AND status IN ('pending', 'active')
			    AND (expires_at IS NULL OR expires_at > ?)`

	return scanMySQLConsentRow(querier.QueryRowContext(ctx, query, contentType, contentID, siteID.String(), now))
}

// GetLiveByContentAndSite retrieves the live consent for a content item and
// site regardless of content type. Returns ErrConsentNotFound if none exists.
func (m *MySQLConsentRepository) GetLiveByContentAndSite(
	ctx context.Context,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*synDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, content_type, content_id, destination_site_id, status,
				allow_full_content, allow_media_assets, allow_analytics, permission_level,
				attribution_text, request_reason, expires_at, created_at, revoked_at, revoked_reason
			  FROM consents
			  WHERE content_id = ? AND destination_site_id = ?
			    AND status IN ('pending', 'active')
			    AND (expires_at IS NULL OR expires_at > ?)
			  ORDER BY created_at DESC LIMIT 1`

	return scanMySQLConsentRow(querier.QueryRowContext(ctx, query, contentID, siteID.String(), now))
}

// ExpireStale performs the compare-and-swap active -> expired for a consent
// whose TTL has elapsed but which still occupies the live-uniqueness slot for
// the triple. Returns true when a row was released, freeing the slot for a
// fresh insert.
func (m *MySQLConsentRepository) ExpireStale(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE consents SET status = 'expired'
			  WHERE content_type = ? AND content_id = ? AND destination_site_id = ?
			    AND status = 'active' AND expires_at IS NOT NULL AND expires_at <= ?`

	result, err := querier.ExecContext(ctx, query, contentType, contentID, siteID.String(), now)
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
func (m *MySQLConsentRepository) Update(ctx context.Context, consent *synDomain.Consent) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE consents
			  SET status = ?,
				  expires_at = ?,
				  revoked_at = ?,
				  revoked_reason = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.Status,
		consent.ExpiresAt,
		consent.RevokedAt,
		consent.RevokedReason,
		consent.ID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update consent")
	}
	return nil
}

// MarkRevoked performs the compare-and-swap transition active -> revoked.
// Returns false without error when the consent was not active.
func (m *MySQLConsentRepository) MarkRevoked(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
	revokedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE consents
			  SET status = 'revoked', revoked_at = ?, revoked_reason = ?
			  WHERE id = ? AND status = 'active'`

	result, err := querier.ExecContext(ctx, query, revokedAt, reason, consentID.String())
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
// TTL has elapsed and returns their IDs. MySQL lacks UPDATE ... RETURNING, so
// IDs are selected first; callers run this inside a transaction.
func (m *MySQLConsentRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	selectQuery := `SELECT id FROM consents
					WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < ?
					FOR UPDATE`

	rows, err := querier.QueryContext(ctx, selectQuery, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to select expirable consents")
	}
	defer rows.Close() //nolint:errcheck

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan expirable consent id")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse consent id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate expirable consents")
	}

	if len(ids) == 0 {
		return nil, nil
	}

	updateQuery := `UPDATE consents SET status = 'expired'
					WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < ?`

	if _, err := querier.ExecContext(ctx, updateQuery, now); err != nil {
		return nil, apperrors.Wrap(err, "failed to expire consents")
	}

	return ids, nil
}

// scanMySQLConsentRow scans a single consent row, translating sql.ErrNoRows
// to ErrConsentNotFound. UUID columns are stored as CHAR(36).
func scanMySQLConsentRow(row *sql.Row) (*synDomain.Consent, error) {
	var consent synDomain.Consent
	var id, siteID string

	err := row.Scan(
		&id,
		&consent.ContentType,
		&consent.ContentID,
		&siteID,
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

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse consent id")
	}
	parsedSiteID, err := uuid.Parse(siteID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse destination site id")
	}
	consent.ID = parsedID
	consent.DestinationSiteID = parsedSiteID

	return &consent, nil
}

// NewMySQLConsentRepository creates a new MySQL Consent repository.
func NewMySQLConsentRepository(db *sql.DB) *MySQLConsentRepository {
	return &MySQLConsentRepository{db: db}
}
