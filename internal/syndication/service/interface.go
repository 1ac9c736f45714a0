// Package service provides supporting services for the syndication domain.
package service

// TokenService generates and hashes opaque capability token values.
type TokenService interface {
	// GenerateToken creates a new random token value.
	// Returns the plain token (shown once to the caller) and its hash for storage.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain token value for exact-match lookup.
	HashToken(plainToken string) string
}
