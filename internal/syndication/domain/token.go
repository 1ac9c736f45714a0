package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is an opaque bearer capability bound to a consent record. Only the
// SHA-256 hash of the token value is stored; the raw value is shown exactly
// once at issuance. The consent back-reference is non-owning: revoking a
// consent cascades to its tokens through the revocation coordinator, never
// through the token itself.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ConsentID uuid.UUID
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsRevoked reports whether the token has been individually or cascade-revoked.
func (t *Token) IsRevoked() bool {
	return t.RevokedAt != nil
}

// Status returns the token's externally visible status string.
func (t *Token) Status() string {
	if t.IsRevoked() {
		return "revoked"
	}
	return "active"
}
