package authcore

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/avagner/authcore/internal/audit"
	"github.com/avagner/authcore/internal/metrics"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	// Cheap hash parameters keep the suite fast.
	cfg.Password.Memory = 8192
	cfg.Password.Time = 1
	return cfg
}

func newTestEngine(t *testing.T) (*Engine, *MockEmailClient) {
	t.Helper()

	emails := NewMockEmailClient(log.New(io.Discard, "", 0))
	engine, err := New().
		WithConfig(testConfig()).
		WithEmailClient(emails).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, emails
}

func mustSignup(t *testing.T, engine *Engine, email, password string, requires2FA bool) {
	t.Helper()
	if err := engine.Signup(context.Background(), email, password, requires2FA); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
}

// lastSentCode pulls the verification code out of the most recent
// captured dispatch.
func lastSentCode(t *testing.T, emails *MockEmailClient) string {
	t.Helper()
	sent := emails.Sent()
	if len(sent) == 0 {
		t.Fatal("expected at least one dispatched email")
	}
	return sent[len(sent)-1].Content
}

func wrongCode(code string) string {
	if code == "111111" {
		return "222222"
	}
	return "111111"
}

func TestSignupAndLoginIssuesToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	result, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.TwoFactorRequired {
		t.Fatal("expected no second factor for regular account")
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}

	claims, err := engine.ValidateToken(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "a@b.com" {
		t.Fatalf("expected subject a@b.com, got %q", claims.Subject)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	err := engine.Signup(context.Background(), "a@b.com", "different456", false)
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestSignupRejectsMalformedInput(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"no separator in email", "not-an-email", "password123"},
		{"empty email", "", "password123"},
		{"short password", "a@b.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Signup(context.Background(), tc.email, tc.password, false)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	_, unknownErr := engine.Login(context.Background(), "ghost@b.com", "password123")
	_, wrongErr := engine.Login(context.Background(), "a@b.com", "wrongpassword")

	if !errors.Is(unknownErr, ErrIncorrectCredentials) {
		t.Fatalf("unknown email: expected ErrIncorrectCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrIncorrectCredentials) {
		t.Fatalf("wrong password: expected ErrIncorrectCredentials, got %v", wrongErr)
	}
}

func TestLoginWithTwoFactorOpensChallenge(t *testing.T) {
	engine, emails := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", true)

	result, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.TwoFactorRequired {
		t.Fatal("expected a second-factor challenge")
	}
	if result.Token != "" {
		t.Fatal("expected no token before verification")
	}
	if result.AttemptID == "" {
		t.Fatal("expected an attempt identifier")
	}

	code := lastSentCode(t, emails)
	issued, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", result.AttemptID, code)
	if err != nil {
		t.Fatalf("VerifyTwoFactor failed: %v", err)
	}

	claims, err := engine.ValidateToken(context.Background(), issued)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "a@b.com" {
		t.Fatalf("expected subject a@b.com, got %q", claims.Subject)
	}
}

func TestVerifyTwoFactorWrongCodeLeavesChallengeIntact(t *testing.T) {
	engine, emails := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", true)

	result, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	code := lastSentCode(t, emails)

	_, err = engine.VerifyTwoFactor(context.Background(), "a@b.com", result.AttemptID, wrongCode(code))
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}

	// The failed guess must not consume the challenge.
	if _, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", result.AttemptID, code); err != nil {
		t.Fatalf("VerifyTwoFactor after failed guess failed: %v", err)
	}
}

func TestVerifyTwoFactorWrongAttemptID(t *testing.T) {
	engine, emails := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", true)

	if _, err := engine.Login(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	code := lastSentCode(t, emails)

	_, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", NewLoginAttemptID().String(), code)
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}
}

func TestVerifyTwoFactorWithoutChallenge(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", true)

	_, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", NewLoginAttemptID().String(), "123456")
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}
}

func TestSecondLoginReplacesChallenge(t *testing.T) {
	engine, emails := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", true)

	first, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	firstCode := lastSentCode(t, emails)

	second, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	secondCode := lastSentCode(t, emails)

	if _, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", first.AttemptID, firstCode); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected stale challenge to fail, got %v", err)
	}
	if _, err := engine.VerifyTwoFactor(context.Background(), "a@b.com", second.AttemptID, secondCode); err != nil {
		t.Fatalf("VerifyTwoFactor with latest challenge failed: %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	result, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.ValidateToken(context.Background(), result.Token); err != nil {
		t.Fatalf("ValidateToken before logout failed: %v", err)
	}

	if err := engine.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := engine.ValidateToken(context.Background(), result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
	// A second logout finds the token already banned.
	if err := engine.Logout(context.Background(), result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on repeated logout, got %v", err)
	}
}

func TestValidateTokenRejectsMissingAndGarbage(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.ValidateToken(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := engine.ValidateToken(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := engine.Logout(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken from Logout, got %v", err)
	}
}

func TestDeleteAccountRemovesUserAndRevokesToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	result, err := engine.Login(context.Background(), "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.DeleteAccount(context.Background(), result.Token); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if _, err := engine.Login(context.Background(), "a@b.com", "password123"); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials after deletion, got %v", err)
	}
	if _, err := engine.ValidateToken(context.Background(), result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after deletion, got %v", err)
	}
	// The email is free for re-registration.
	mustSignup(t, engine, "a@b.com", "password123", false)
}

func TestMetricsCountOutcomes(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSignup(t, engine, "a@b.com", "password123", false)

	if _, err := engine.Login(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.Login(context.Background(), "a@b.com", "wrongpassword"); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[metrics.MetricSignupSuccess]; got != 1 {
		t.Fatalf("expected 1 signup success, got %d", got)
	}
	if got := snap.Counters[metrics.MetricLoginSuccess]; got != 1 {
		t.Fatalf("expected 1 login success, got %d", got)
	}
	if got := snap.Counters[metrics.MetricLoginFailure]; got != 1 {
		t.Fatalf("expected 1 login failure, got %d", got)
	}
}

func TestAuditEventsReachSink(t *testing.T) {
	sink := audit.NewChannelSink(16)
	emails := NewMockEmailClient(log.New(io.Discard, "", 0))
	engine, err := New().
		WithConfig(testConfig()).
		WithEmailClient(emails).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	mustSignup(t, engine, "a@b.com", "password123", false)
	if _, err := engine.Login(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	engine.Close()

	var types []string
	for len(sink.Events()) > 0 {
		event := <-sink.Events()
		types = append(types, event.EventType)
		if event.Subject != "a@b.com" {
			t.Fatalf("expected subject a@b.com, got %q", event.Subject)
		}
	}
	if len(types) != 2 || types[0] != "signup_success" || types[1] != "login_success" {
		t.Fatalf("unexpected event sequence: %v", types)
	}
}
