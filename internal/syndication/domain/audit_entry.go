package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessAuditEntry records the outcome of a single gateway content request.
// Entries are append-only: the gateway creates one per request and nothing
// ever mutates them. TokenID is nil when the presented token was unknown.
type AccessAuditEntry struct {
	ID        uuid.UUID
	TokenID   *uuid.UUID
	ContentID string
	Outcome   AccessOutcome
	RequestID string
	CreatedAt time.Time
}
