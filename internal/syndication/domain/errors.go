package domain

import (
	"github.com/storyweave/syndication/internal/errors"
)

// Syndication consent and token errors. Denial errors carry only their
// taxonomy meaning; handlers must never distinguish an unknown token from a
// revoked consent in responses, to avoid oracle attacks on the token space.
var (
	// ErrConsentNotFound indicates a consent record with the specified ID was not found.
	ErrConsentNotFound = errors.Wrap(errors.ErrNotFound, "consent not found")

	// ErrUnknownDestination indicates the destination site is unregistered or
	// suspended and cannot receive new grants.
	ErrUnknownDestination = errors.Wrap(errors.ErrNotFound, "unknown destination site")

	// ErrInvalidTransition indicates a consent state-machine violation, such
	// as approving a consent that is not pending.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid consent state transition")

	// ErrConsentDuplicate is the storage-level signal that a live consent
	// already occupies the (content, site) uniqueness slot. Use cases convert
	// it into a ConsentConflictError carrying the winner's record.
	ErrConsentDuplicate = errors.Wrap(errors.ErrConflict, "live consent already exists")

	// ErrInvalidToken indicates the presented token value is unknown.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrConsentNotActive indicates the token's owning consent is revoked,
	// expired, or otherwise not active. Covers individually revoked tokens.
	ErrConsentNotActive = errors.Wrap(errors.ErrForbidden, "consent not active")

	// ErrCulturalPolicyViolation indicates the content's sensitivity level is
	// stricter than the consent's permission ceiling. The request is refused
	// entirely; there is no partial redaction of sensitivity-gated material.
	ErrCulturalPolicyViolation = errors.Wrap(errors.ErrForbidden, "cultural policy violation")

	// ErrTokenNotFound indicates a token with the specified ID was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
)

// ConsentConflictError reports a duplicate create attempt and carries the
// existing live record so callers can return it instead of erroring opaquely.
type ConsentConflictError struct {
	Existing *Consent
}

// Error implements the error interface.
func (e *ConsentConflictError) Error() string {
	return "a live consent already exists for this content and destination"
}

// Unwrap chains to ErrConsentDuplicate so errors.Is(err, errors.ErrConflict) holds.
func (e *ConsentConflictError) Unwrap() error {
	return ErrConsentDuplicate
}
