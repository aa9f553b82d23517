package jwtclaims

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspector_AccessToken(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := sign(t, jwt.MapClaims{
		"sub":       "8f2c-uuid",
		"username":  "alice",
		"exp":       exp.Unix(),
		"token_use": "access",
	})

	claims, err := New().Inspect(raw)
	require.NoError(t, err)

	assert.Equal(t, "8f2c-uuid", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, exp, claims.ExpiresAt)
}

func TestInspector_IDToken(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": "s", "cognito:username": "bob"})

	claims, err := New().Inspect(raw)
	require.NoError(t, err)

	assert.Equal(t, "bob", claims.Username)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestInspector_ExpiredTokenStillParses(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": "s", "exp": time.Now().Add(-time.Hour).Unix()})

	claims, err := New().Inspect(raw)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestInspector_OpaqueToken(t *testing.T) {
	_, err := New().Inspect("not-a-jwt")
	assert.ErrorIs(t, err, ErrNoClaims)
}
