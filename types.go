package authcore

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minPasswordBytes = 8
	twoFACodeMin     = 100_000
	twoFACodeMax     = 999_999
)

// Email is the unique identity key. Parsing checks structural shape only
// (non-empty, contains a separator); it performs no deliverability checks
// and preserves case.
type Email struct {
	value string
}

// ParseEmail validates the structural shape of raw and returns it as an
// [Email] key.
func ParseEmail(raw string) (Email, error) {
	if raw == "" || !strings.Contains(raw, "@") {
		return Email{}, errors.New("malformed email")
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

// IsZero reports whether e is the zero key.
func (e Email) IsZero() bool { return e.value == "" }

// Password wraps a plaintext secret. It redacts itself from formatting and
// serialization paths; only [Password.Expose] yields the raw value, and only
// the hashing path should call it.
type Password struct {
	value string
}

// ParsePassword enforces the minimum length policy.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < minPasswordBytes {
		return Password{}, fmt.Errorf("password must be at least %d bytes", minPasswordBytes)
	}
	return Password{value: raw}, nil
}

// Expose returns the raw secret for hashing or verification.
func (p Password) Expose() string { return p.value }

func (p Password) String() string { return "[REDACTED]" }

// GoString redacts the secret from %#v output as well.
func (p Password) GoString() string { return "authcore.Password{[REDACTED]}" }

// MarshalJSON keeps the secret out of generic serialization paths.
func (p Password) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// TwoFACode is a one-time 6-digit numeric secret.
type TwoFACode struct {
	value string
}

// ParseTwoFACode accepts exactly the 6-digit numeric range.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	n, err := strconv6(raw)
	if err != nil {
		return TwoFACode{}, err
	}
	if n < twoFACodeMin || n > twoFACodeMax {
		return TwoFACode{}, errors.New("malformed 2fa code")
	}
	return TwoFACode{value: raw}, nil
}

func strconv6(raw string) (int64, error) {
	if len(raw) != 6 {
		return 0, errors.New("malformed 2fa code")
	}
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, errors.New("malformed 2fa code")
		}
		n = n*10 + int64(r-'0')
	}
	return n, nil
}

// GenerateTwoFACode draws a code uniformly from [100000, 999999] using
// crypto/rand.
func GenerateTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(twoFACodeMax-twoFACodeMin+1))
	if err != nil {
		return TwoFACode{}, err
	}
	return TwoFACode{value: fmt.Sprintf("%06d", n.Int64()+twoFACodeMin)}, nil
}

// Equal compares codes in constant time.
func (c TwoFACode) Equal(other TwoFACode) bool {
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(other.value)) == 1
}

// Expose returns the raw code for persistence and dispatch.
func (c TwoFACode) Expose() string { return c.value }

func (c TwoFACode) String() string { return "[REDACTED]" }

// GoString redacts the code from %#v output as well.
func (c TwoFACode) GoString() string { return "authcore.TwoFACode{[REDACTED]}" }

// MarshalJSON keeps the code out of generic serialization paths.
func (c TwoFACode) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// LoginAttemptID correlates a pending two-factor challenge with the verify
// call that answers it. It is returned to the caller, so it is an opaque
// reference rather than a secret, but comparison is still constant time.
type LoginAttemptID struct {
	value string
}

// ParseLoginAttemptID requires the challenge-identifier format (UUID).
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, fmt.Errorf("malformed login attempt id: %w", err)
	}
	return LoginAttemptID{value: id.String()}, nil
}

// NewLoginAttemptID generates a fresh random identifier.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

// Equal compares identifiers in constant time.
func (id LoginAttemptID) Equal(other LoginAttemptID) bool {
	return subtle.ConstantTimeCompare([]byte(id.value), []byte(other.value)) == 1
}

func (id LoginAttemptID) String() string { return id.value }

// User is the signup input: a structurally valid email, a plaintext
// password (hashed by the store on insert, never persisted), and the
// second-factor flag.
type User struct {
	Email             Email
	Password          Password
	RequiresTwoFactor bool
}

// Identity is the persisted account record owned by [UserStore]. The
// password hash is opaque to every component except the store that
// verifies candidates against it.
type Identity struct {
	Email             Email
	PasswordHash      string
	RequiresTwoFactor bool
}

// UserStore persists identity records and enforces email uniqueness.
// Implementations must make Add atomic per key: concurrent inserts of the
// same email yield exactly one success and [ErrUserAlreadyExists] for the
// rest. Add computes and persists a password hash; the plaintext never
// reaches the backend.
type UserStore interface {
	Add(ctx context.Context, user User) error
	Get(ctx context.Context, email Email) (Identity, error)
	Validate(ctx context.Context, email Email, password Password) error
	Delete(ctx context.Context, email Email) error
}

// BannedTokenStore tracks revoked session tokens until their natural
// expiry. Entries self-expire: ttl is the remaining lifetime of the token
// at revocation time, so the store only ever holds currently-valid but
// banned tokens.
type BannedTokenStore interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// TwoFACodeStore holds at most one live challenge per email. Put replaces
// any existing challenge unconditionally; Get fails with
// [ErrChallengeNotFound] once the TTL has elapsed; Remove is idempotent.
type TwoFACodeStore interface {
	Put(ctx context.Context, email Email, attemptID LoginAttemptID, code TwoFACode) error
	Get(ctx context.Context, email Email) (LoginAttemptID, TwoFACode, error)
	Remove(ctx context.Context, email Email) error
}

// EmailClient dispatches one-time codes through an external notification
// channel. The engine treats dispatch failure as an unexpected error, not
// a caller fault.
type EmailClient interface {
	Send(ctx context.Context, recipient Email, subject, content string) error
}

// LoginResult is returned by [Engine.Login]. Exactly one of Token or
// AttemptID is populated: a token for regular authentication, an attempt
// identifier when a second factor is required. The code itself is never
// part of the result.
type LoginResult struct {
	Token             string
	TwoFactorRequired bool
	AttemptID         string
}
