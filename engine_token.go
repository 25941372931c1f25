package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/avagner/authcore/internal/metrics"
	"github.com/avagner/authcore/token"
)

// ValidateToken authorizes a carried session token. Revocation is
// checked before the signature so a banned token is rejected even while
// cryptographically valid. On success the decoded claims are returned.
func (e *Engine) ValidateToken(ctx context.Context, tok string) (*token.Claims, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrMissingToken
	}

	claims, err := e.checkToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	e.metricInc(metrics.MetricTokenValidated)
	return claims, nil
}

// Logout revokes a session token for the remainder of its lifetime.
// Revoking an already-revoked or otherwise invalid token returns
// [ErrInvalidToken].
func (e *Engine) Logout(ctx context.Context, tok string) error {
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

	if err := e.revoke(ctx, tok, claims); err != nil {
		return err
	}

	e.metricInc(metrics.MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, claims.Subject, nil, nil)
	return nil
}

// checkToken rejects revoked tokens first, then verifies the signature
// and expiry. Every rejection surfaces as [ErrInvalidToken]; the caller
// never learns which check failed.
func (e *Engine) checkToken(ctx context.Context, tok string) (*token.Claims, error) {
	if e.banned != nil {
		banned, err := e.banned.Contains(ctx, tok)
		if err != nil {
			return nil, err
		}
		if banned {
			e.metricInc(metrics.MetricTokenRejected)
			e.emitAudit(ctx, auditEventTokenRejected, false, "", ErrInvalidToken, map[string]string{
				"reason": "revoked",
			})
			return nil, ErrInvalidToken
		}
	}

	claims, err := e.tokens.Verify(tok)
	if err != nil {
		e.metricInc(metrics.MetricTokenRejected)
		e.emitAudit(ctx, auditEventTokenRejected, false, "", ErrInvalidToken, nil)
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// revoke bans the token for exactly its remaining lifetime so the
// revocation record never outlives the token it covers.
func (e *Engine) revoke(ctx context.Context, tok string, claims *token.Claims) error {
	ttl := time.Until(claims.ExpiresAt)
	if err := e.banned.Add(ctx, tok, ttl); err != nil {
		return fmt.Errorf("%w: revocation store: %v", ErrUnexpected, err)
	}
	e.metricInc(metrics.MetricTokenRevoked)
	return nil
}
