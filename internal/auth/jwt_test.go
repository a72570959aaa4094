package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate("user-1", "Admin", "session-1")
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestTokenIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Minute)
	other, _ := NewTokenIssuer("other-secret", time.Minute)

	token, err := issuer.Generate("user-1", "Admin", "session-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RequiresSessionClaims(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Minute)
	token, err := issuer.Generate("user-1", "Admin", "")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestNewTokenIssuer_NeedsSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Minute)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}
