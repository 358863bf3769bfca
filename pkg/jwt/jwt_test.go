package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "access", claims.Type)
	assert.NotEmpty(t, claims.ID, "jti required for logout blacklisting")
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "refresh", claims.Type)
	assert.Empty(t, claims.Email)
}

func TestTokenTypeEnforced(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken("user-1", "user@example.com", "admin")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := newTestManager().GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)

	other := NewManager("other-secret", 15*time.Minute, 7*24*time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := newTestManager().ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestUniqueTokenIDs(t *testing.T) {
	m := newTestManager()

	first, err := m.GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)
	second, err := m.GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)

	firstClaims, err := m.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := m.ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
