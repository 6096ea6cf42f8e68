package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

func newTestTokenService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(ttl, "test-issuer", "test-audience", testSecretKey)
	require.NoError(t, err)
	return svc
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Hour, "issuer", "audience", "")
	assert.Error(t, err)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestTokenService(t, 24*time.Hour)

	token, issued, err := svc.IssueToken(42, "+971506294302")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, issued)
	assert.Equal(t, uint(42), issued.UserID)
	assert.Equal(t, "+971506294302", issued.PhoneNumber)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "+971506294302", claims.PhoneNumber)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, -1*time.Hour)

	token, _, err := svc.IssueToken(7, "+971506294302")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateMalformedToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenSignedWithDifferentKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	other, err := NewTokenService(time.Hour, "test-issuer", "test-audience", "another-secret-key-with-32-characters!!")
	require.NoError(t, err)

	token, _, err := other.IssueToken(1, "+971506294302")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, issued, err := svc.IssueToken(9, "+971543323218")
	require.NoError(t, err)

	newToken, claims, err := svc.RefreshToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "+971543323218", claims.PhoneNumber)
	assert.NotEqual(t, issued.TokenID, claims.TokenID)

	// The refreshed token must itself validate
	_, err = svc.ValidateToken(newToken)
	assert.NoError(t, err)
}

func TestRefreshExpiredTokenFails(t *testing.T) {
	svc := newTestTokenService(t, -1*time.Minute)

	token, _, err := svc.IssueToken(9, "+971543323218")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
