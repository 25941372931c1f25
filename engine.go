package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/avagner/authcore/internal/audit"
	"github.com/avagner/authcore/internal/metrics"
	"github.com/avagner/authcore/token"
)

// Engine orchestrates the authentication flows over the configured
// stores. Construct one through [Builder.Build]; the zero value is not
// usable. All methods are safe for concurrent use.
type Engine struct {
	config Config

	users  UserStore
	banned BannedTokenStore
	twoFA  TwoFACodeStore
	emails EmailClient
	tokens *token.Codec

	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

const (
	auditEventSignupSuccess  = "signup_success"
	auditEventSignupFailure  = "signup_failure"
	auditEventLoginSuccess   = "login_success"
	auditEventLoginFailure   = "login_failure"
	auditEventTwoFARequired  = "2fa_required"
	auditEventTwoFASuccess   = "2fa_success"
	auditEventTwoFAFailure   = "2fa_failure"
	auditEventLogout         = "logout"
	auditEventTokenRejected  = "token_rejected"
	auditEventAccountDeleted = "account_deleted"
)

// Close shuts down the audit dispatcher, draining buffered events. The
// engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies every counter at a point in time.
func (e *Engine) MetricsSnapshot() metrics.Snapshot {
	if e == nil || e.metrics == nil {
		return metrics.Snapshot{Counters: map[metrics.MetricID]uint64{}}
	}
	return e.metrics.SnapshotNow()
}

func (e *Engine) ready() error {
	if e == nil || e.users == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	return nil
}

func (e *Engine) metricInc(id metrics.MetricID) {
	if e.metrics != nil {
		e.metrics.Inc(id)
	}
}

// emitAudit builds and dispatches one event. The subject is an email
// address; secrets never appear in metadata. A nil dispatcher drops the
// event, so the call is safe in every configuration.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, subject string, err error, metadata map[string]string) {
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Subject:   subject,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = code
	}
	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrIncorrectCredentials):
		return "incorrect_credentials"
	case errors.Is(err, ErrUserAlreadyExists):
		return "duplicate"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrChallengeNotFound):
		return "challenge_not_found"
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrStoreUnavailable):
		return "backend_unavailable"
	default:
		return "internal_error"
	}
}
