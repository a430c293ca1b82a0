package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT("test-secret", userID, "buyer", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "buyer", claims.Role)
	assert.Equal(t, "justcars-escrow", claims.Issuer)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("test-secret", uuid.New(), "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other-secret", token)
	assert.Error(t, err)
}

func TestParseJWT_Malformed(t *testing.T) {
	_, err := ParseJWT("test-secret", "not.a.token")
	assert.Error(t, err)
}

func TestGenerateJWT_DefaultExpiration(t *testing.T) {
	// Zero or negative expiration falls back to 24h instead of minting
	// an already-expired token.
	token, err := GenerateJWT("test-secret", uuid.New(), "buyer", 0)
	require.NoError(t, err)

	claims, err := ParseJWT("test-secret", token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(23*time.Hour)))
}
