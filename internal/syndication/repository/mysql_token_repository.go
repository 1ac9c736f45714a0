package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	synDomain "github.com/storyweave/syndication/internal/syndication/domain"
)

// MySQLTokenRepository implements capability token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new capability token record.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *synDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO capability_tokens (id, token_hash, consent_id, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID.String(),
		token.TokenHash,
		token.ConsentID.String(),
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound if
// no token with that hash exists.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*synDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, consent_id, revoked_at, created_at
			  FROM capability_tokens WHERE token_hash = ?`

	return scanMySQLTokenRow(querier.QueryRowContext(ctx, query, tokenHash))
}

// ListByContentID retrieves all tokens issued for consents covering a content
// item, newest first.
func (m *MySQLTokenRepository) ListByContentID(ctx context.Context, contentID string) ([]*synDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT t.id, t.token_hash, t.consent_id, t.revoked_at, t.created_at
			  FROM capability_tokens t
			  JOIN consents c ON c.id = t.consent_id
			  WHERE c.content_id = ?
			  ORDER BY t.created_at DESC`

	rows, err := querier.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*synDomain.Token
	for rows.Next() {
		var token synDomain.Token
		var id, consentID string

		err := rows.Scan(&id, &token.TokenHash, &consentID, &token.RevokedAt, &token.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		if token.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse token id")
		}
		if token.ConsentID, err = uuid.Parse(consentID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse consent id")
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// RevokeAllByConsent marks every unrevoked token of a consent as revoked and
// returns the number of tokens affected.
func (m *MySQLTokenRepository) RevokeAllByConsent(
	ctx context.Context,
	consentID uuid.UUID,
	revokedAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE capability_tokens SET revoked_at = ?
			  WHERE consent_id = ? AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, consentID.String())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

func scanMySQLTokenRow(row *sql.Row) (*synDomain.Token, error) {
	var token synDomain.Token
	var id, consentID string

	err := row.Scan(&id, &token.TokenHash, &consentID, &token.RevokedAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, synDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	if token.ID, err = uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse token id")
	}
	if token.ConsentID, err = uuid.Parse(consentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse consent id")
	}

	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
