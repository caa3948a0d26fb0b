package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("mobile", "auth-service", "secret")

	token, err := a.IssueSessionToken("user-1", "+919876543210", "session-1", time.Hour)
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "+919876543210", claims.Phone)
	assert.Equal(t, "session-1", claims.ID)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := NewJWTAuthenticator("mobile", "auth-service", "secret")

	expired, err := a.IssueSessionToken("user-1", "+919876543210", "session-1", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewJWTAuthenticator("mobile", "auth-service", "other").
		IssueSessionToken("user-1", "+919876543210", "session-1", time.Hour)
	require.NoError(t, err)

	otherAudience, err := NewJWTAuthenticator("web", "auth-service", "secret").
		IssueSessionToken("user-1", "+919876543210", "session-1", time.Hour)
	require.NoError(t, err)

	noSession, err := a.IssueSessionToken("user-1", "+919876543210", "", time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":        expired,
		"other secret":   otherSecret,
		"other audience": otherAudience,
		"no session id":  noSession,
		"garbage":        "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.ValidateSessionToken(token)
			assert.Error(t, err)
		})
	}
}
