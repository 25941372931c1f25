package authcore

import (
	"errors"
	"time"
)

// Config carries every tunable the engine needs. It is constructed once at
// startup, validated by [Builder.Build], and treated as immutable afterwards:
// the signing key and TTL constants are process-wide and never rotate
// mid-flow.
type Config struct {
	Token      TokenConfig
	Password   PasswordConfig
	TwoFactor  TwoFactorConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// TokenConfig controls session-token issuance.
type TokenConfig struct {
	// TTL bounds the validity window of every issued token.
	TTL time.Duration
	// SigningKey is the server-held symmetric key. Required.
	SigningKey []byte
	// Issuer is embedded in issued claims when non-empty.
	Issuer string
}

// PasswordConfig fixes the argon2id cost parameters. They are not exposed
// per call so verification stays compatible across stored hashes.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	// MaxConcurrent bounds the hashing worker pool so a burst of
	// signups cannot starve I/O-bound request handling.
	MaxConcurrent int
}

// TwoFactorConfig controls one-time challenge lifetime and key layout.
type TwoFactorConfig struct {
	ChallengeTTL time.Duration
	RedisPrefix  string
}

// RevocationConfig controls the banned-token key layout.
type RevocationConfig struct {
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the reference parameters: 10-minute token and
// challenge TTLs, argon2id m=15000 KB / t=2 / p=1, and audit + metrics
// enabled. The signing key must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: 10 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:        15000,
			Time:          2,
			Parallelism:   1,
			SaltLength:    16,
			KeyLength:     32,
			MaxConcurrent: 8,
		},
		TwoFactor: TwoFactorConfig{
			ChallengeTTL: 10 * time.Minute,
			RedisPrefix:  "two_fa_code",
		},
		Revocation: RevocationConfig{
			RedisPrefix: "banned_token",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningKey = cloneBytes(cfg.Token.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks the invariants Build relies on. Hash cost minimums are
// enforced separately by the password package.
func (c *Config) Validate() error {
	if len(c.Token.SigningKey) == 0 {
		return errors.New("token signing key required")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.TwoFactor.ChallengeTTL <= 0 {
		return errors.New("two-factor challenge TTL must be positive")
	}
	if c.TwoFactor.RedisPrefix == "" {
		return errors.New("two-factor redis prefix required")
	}
	if c.Revocation.RedisPrefix == "" {
		return errors.New("revocation redis prefix required")
	}
	if c.Password.MaxConcurrent <= 0 {
		return errors.New("password MaxConcurrent must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}
