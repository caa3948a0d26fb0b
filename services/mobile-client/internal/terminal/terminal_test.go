package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/app"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/navigation"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/otpflow"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/preference"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
)

type mockVerifier struct {
	calls []string
}

func (m *mockVerifier) Verify(ctx context.Context, phone, otp string) (session.Credentials, error) {
	m.calls = append(m.calls, phone+":"+otp)
	if otp != "1234" {
		return session.Credentials{}, &otpflow.VerificationError{Message: "Invalid OTP"}
	}
	return session.Credentials{User: session.User{ID: "user-1", Phone: phone}, Token: "token-1"}, nil
}

func runScript(t *testing.T, script string) (string, *app.App, *mockVerifier) {
	t.Helper()

	var out bytes.Buffer
	term := New(strings.NewReader(script), &out, logger.Nop())
	verifier := &mockVerifier{}

	a, err := app.New(context.Background(), app.Deps{
		Preferences: preference.NewMemory(),
		Verifier:    verifier,
		Renderer:    term,
		Logger:      logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NoError(t, term.Run(context.Background(), a))
	return out.String(), a, verifier
}

func TestTerminal_SignIn(t *testing.T) {
	out, a, verifier := runScript(t, strings.Join([]string{
		"",
		"12345",
		"9876543210",
		"12",
		"0000",
		"1234",
		"quit",
	}, "\n")+"\n")

	assert.Contains(t, out, "Invalid mobile number")
	assert.Contains(t, out, "Please enter 4-digit OTP")
	assert.Contains(t, out, "Invalid OTP")
	assert.Contains(t, out, "Mobile number verified")
	assert.Contains(t, out, "Signed in as +919876543210")
	assert.Equal(t, []string{"+919876543210:0000", "+919876543210:1234"}, verifier.calls)
	assert.True(t, a.Session.Snapshot().IsAuthenticated)
	assert.Equal(t, navigation.TreeAuthenticated, a.Gate.Current())
}

func TestTerminal_LanguageAndBack(t *testing.T) {
	out, a, verifier := runScript(t, strings.Join([]string{
		"fr",
		"or",
		"9876543210",
		"",
		"9876543211",
	}, "\n")+"\n")

	assert.Contains(t, out, "unsupported language")
	assert.Equal(t, "or", a.Language.Active())
	assert.Contains(t, out, "OTP sent to +919876543210")
	assert.Contains(t, out, "OTP sent to +919876543211")
	assert.Empty(t, verifier.calls)
	assert.False(t, a.Session.Snapshot().IsAuthenticated)
}

func TestTerminal_Logout(t *testing.T) {
	out, a, _ := runScript(t, strings.Join([]string{
		"en",
		"9876543210",
		"1234",
		"logout",
	}, "\n")+"\n")

	assert.Contains(t, out, "Signed in as +919876543210")
	assert.Equal(t, 2, strings.Count(out, "Language "))
	assert.False(t, a.Session.Snapshot().IsAuthenticated)
	assert.Equal(t, navigation.TreeUnauthenticated, a.Gate.Current())
}
