package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/avagner/authcore/internal/metrics"
)

// Subject line for the one-time code dispatch. The code travels only in
// the message body.
const twoFACodeEmailSubject = "Your verification code"

// Login authenticates a password and either issues a session token or,
// for identities with the second factor enabled, opens a challenge and
// returns its attempt identifier. Malformed input returns
// [ErrInvalidCredentials]; an unknown email and a wrong password both
// return [ErrIncorrectCredentials] so the caller cannot probe for
// registered addresses.
func (e *Engine) Login(ctx context.Context, rawEmail, rawPassword string) (LoginResult, error) {
	if err := e.ready(); err != nil {
		return LoginResult{}, err
	}

	email, err := ParseEmail(rawEmail)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	pw, err := ParsePassword(rawPassword)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	if err := e.users.Validate(ctx, email, pw); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidSecret) {
			e.metricInc(metrics.MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, email.String(), ErrIncorrectCredentials, nil)
			return LoginResult{}, ErrIncorrectCredentials
		}
		return LoginResult{}, err
	}

	identity, err := e.users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Deleted between validate and get. Same answer as a
			// wrong password.
			e.metricInc(metrics.MetricLoginFailure)
			return LoginResult{}, ErrIncorrectCredentials
		}
		return LoginResult{}, err
	}

	if identity.RequiresTwoFactor {
		return e.openChallenge(ctx, email)
	}

	issued, err := e.tokens.Issue(email.String())
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: token issuance: %v", ErrUnexpected, err)
	}

	e.metricInc(metrics.MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, email.String(), nil, nil)
	return LoginResult{Token: issued}, nil
}

// openChallenge generates a fresh challenge, persists it (replacing any
// prior one for this email), and dispatches the code. The attempt
// identifier is the only part returned to the caller.
func (e *Engine) openChallenge(ctx context.Context, email Email) (LoginResult, error) {
	attemptID := NewLoginAttemptID()
	code, err := GenerateTwoFACode()
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: code generation: %v", ErrUnexpected, err)
	}

	if err := e.twoFA.Put(ctx, email, attemptID, code); err != nil {
		return LoginResult{}, fmt.Errorf("%w: challenge store: %v", ErrUnexpected, err)
	}
	if err := e.emails.Send(ctx, email, twoFACodeEmailSubject, code.Expose()); err != nil {
		return LoginResult{}, fmt.Errorf("%w: code dispatch: %v", ErrUnexpected, err)
	}

	e.metricInc(metrics.MetricTwoFactorRequired)
	e.emitAudit(ctx, auditEventTwoFARequired, true, email.String(), nil, map[string]string{
		"attempt_id": attemptID.String(),
	})
	return LoginResult{TwoFactorRequired: true, AttemptID: attemptID.String()}, nil
}

// VerifyTwoFactor completes a pending challenge and issues a session
// token. A missing or expired challenge and a mismatched attempt
// identifier or code all return [ErrIncorrectCredentials]; on mismatch
// the challenge stays in place until its TTL elapses.
func (e *Engine) VerifyTwoFactor(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	email, err := ParseEmail(rawEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	attemptID, err := ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	code, err := ParseTwoFACode(rawCode)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	storedAttemptID, storedCode, err := e.twoFA.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			e.metricInc(metrics.MetricTwoFactorFailure)
			e.emitAudit(ctx, auditEventTwoFAFailure, false, email.String(), ErrIncorrectCredentials, nil)
			return "", ErrIncorrectCredentials
		}
		return "", err
	}

	if !storedAttemptID.Equal(attemptID) || !storedCode.Equal(code) {
		e.metricInc(metrics.MetricTwoFactorFailure)
		e.emitAudit(ctx, auditEventTwoFAFailure, false, email.String(), ErrIncorrectCredentials, nil)
		return "", ErrIncorrectCredentials
	}

	if err := e.twoFA.Remove(ctx, email); err != nil {
		return "", fmt.Errorf("%w: challenge removal: %v", ErrUnexpected, err)
	}

	issued, err := e.tokens.Issue(email.String())
	if err != nil {
		return "", fmt.Errorf("%w: token issuance: %v", ErrUnexpected, err)
	}

	e.metricInc(metrics.MetricTwoFactorSuccess)
	e.emitAudit(ctx, auditEventTwoFASuccess, true, email.String(), nil, nil)
	return issued, nil
}
