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

// PostgreSQLTokenRepository implements capability token persistence for
// PostgreSQL. Only SHA-256 hashes of tokens are stored; the plaintext value
// never reaches this layer.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new capability token record.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *synDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO capability_tokens (id, token_hash, consent_id, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ConsentID,
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
func (p *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*synDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, consent_id, revoked_at, created_at
			  FROM capability_tokens WHERE token_hash = $1`

	var token synDomain.Token
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.ConsentID,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, synDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return &token, nil
}

// ListByContentID retrieves all tokens issued for consents covering a content
// item, newest first.
func (p *PostgreSQLTokenRepository) ListByContentID(ctx context.Context, contentID string) ([]*synDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT t.id, t.token_hash, t.consent_id, t.revoked_at, t.created_at
			  FROM capability_tokens t
			  JOIN consents c ON c.id = t.consent_id
			  WHERE c.content_id = $1
			  ORDER BY t.created_at DESC`

	rows, err := querier.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*synDomain.Token
	for rows.Next() {
		var token synDomain.Token
		err := rows.Scan(
			&token.ID,
			&token.TokenHash,
			&token.ConsentID,
			&token.RevokedAt,
			&token.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// RevokeAllByConsent marks every unrevoked token of a consent as revoked and
// returns the number of tokens affected. Already-revoked tokens keep their
// original revocation timestamp.
func (p *PostgreSQLTokenRepository) RevokeAllByConsent(
	ctx context.Context,
	consentID uuid.UUID,
	revokedAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE capability_tokens SET revoked_at = $1
			  WHERE consent_id = $2 AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, consentID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
