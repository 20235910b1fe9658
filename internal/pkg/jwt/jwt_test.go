package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	// Setup
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h")
	require.NoError(t, err)

	// Act
	token, expiresAt, err := svc.GenerateAccessToken("admin", RoleAdmin)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", decoded.Subject())
	role, ok := decoded.Get("role")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}

func TestJWTService_RevokeToken(t *testing.T) {
	// Setup
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h")
	require.NoError(t, err)
	token, _, err := svc.GenerateAccessToken("admin", RoleAdmin)
	require.NoError(t, err)

	// Act
	svc.RevokeToken(token)

	// Assert
	assert.True(t, svc.IsTokenRevoked(token))
	assert.False(t, svc.IsTokenRevoked("other"))
}
