package service

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafeToken = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateToken(t *testing.T) {
	svc := NewTokenService()

	plainToken, tokenHash, err := svc.GenerateToken()
	require.NoError(t, err)

	t.Run("MeetsLengthAndCharsetRequirements", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(plainToken), 32)
		assert.Regexp(t, urlSafeToken, plainToken)
	})

	t.Run("HashMatchesSHA256", func(t *testing.T) {
		sum := sha256.Sum256([]byte(plainToken))
		assert.Equal(t, hex.EncodeToString(sum[:]), tokenHash)
	})

	t.Run("TokensAreUnique", func(t *testing.T) {
		seen := map[string]bool{plainToken: true}
		for range 100 {
			token, _, err := svc.GenerateToken()
			require.NoError(t, err)
			assert.False(t, seen[token], "generated token collided")
			seen[token] = true
		}
	})
}

func TestHashToken_Deterministic(t *testing.T) {
	svc := NewTokenService()

	first := svc.HashToken("some-token-value")
	second := svc.HashToken("some-token-value")
	other := svc.HashToken("another-token-value")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}
