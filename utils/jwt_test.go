package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)

	signed, err := tokens.GenerateToken(42, "ana@example.com", "admin")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenManager_RejectsOtherSecret(t *testing.T) {
	signed, err := NewTokenManager("one", time.Hour).GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tokens := NewTokenManager("secret", -time.Minute)
	signed, err := tokens.GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}
