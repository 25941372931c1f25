package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/avagner/authcore/internal/metrics"
)

// Signup registers a new identity. Structural failures return
// [ErrInvalidCredentials] without touching the store; a taken email
// returns [ErrUserAlreadyExists]. The plaintext password is hashed
// inside the user store and never persisted.
func (e *Engine) Signup(ctx context.Context, rawEmail, rawPassword string, requiresTwoFactor bool) error {
	if err := e.ready(); err != nil {
		return err
	}

	email, err := ParseEmail(rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	pw, err := ParsePassword(rawPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user := User{
		Email:             email,
		Password:          pw,
		RequiresTwoFactor: requiresTwoFactor,
	}
	if err := e.users.Add(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			e.metricInc(metrics.MetricSignupDuplicate)
			e.emitAudit(ctx, auditEventSignupFailure, false, email.String(), err, nil)
			return ErrUserAlreadyExists
		}
		e.emitAudit(ctx, auditEventSignupFailure, false, email.String(), err, nil)
		return err
	}

	e.metricInc(metrics.MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, email.String(), nil, map[string]string{
		"requires_2fa": fmt.Sprintf("%t", requiresTwoFactor),
	})
	return nil
}

// DeleteAccount removes the identity named by a valid session token and
// revokes the token itself. A revoked, malformed, or expired token
// returns [ErrInvalidToken]; so does a token whose subject no longer
// exists.
func (e *Engine) DeleteAccount(ctx context.Context, tok string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if tok == "" {
		return ErrMissingToken
	}

	claims, err := e.checkToken(ctx, tok)
	if err != nil {
		return err
	}

	email, err := ParseEmail(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}

	if err := e.users.Delete(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	// The account is gone; its session must not outlive it.
	if err := e.revoke(ctx, tok, claims); err != nil {
		return err
	}

	e.metricInc(metrics.MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, email.String(), nil, nil)
	return nil
}
