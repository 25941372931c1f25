package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when a token cannot be parsed or its
	// signature does not verify.
	ErrMalformed = errors.New("malformed token")
	// ErrExpired is returned for a well-formed token whose expiry is in
	// the past.
	ErrExpired = errors.New("token expired")
)

// Config fixes issuance parameters. The signing key is symmetric,
// process-wide, and read-only after construction.
type Config struct {
	TTL        time.Duration
	SigningKey []byte
	Issuer     string
}

// Claims is the verified claim set of a session token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Codec signs and verifies compact session tokens. Verification is purely
// cryptographic and temporal; revocation state is composed by the caller.
type Codec struct {
	config Config
}

type wireClaims struct {
	jwt.RegisteredClaims
}

// NewCodec validates cfg and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("signing key required")
	}
	return &Codec{config: Config{
		TTL:        cfg.TTL,
		SigningKey: append([]byte(nil), cfg.SigningKey...),
		Issuer:     cfg.Issuer,
	}}, nil
}

// Issue signs a token carrying subject and an expiry of now + TTL. The
// signature covers the full claim set, so tampering with either field
// invalidates the token.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if c.config.Issuer != "" {
		claims.Issuer = c.config.Issuer
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.config.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and checks the signature and expiry of raw. It returns
// [ErrExpired] for a genuinely expired token and [ErrMalformed] for every
// other failure, so callers cannot distinguish forgery classes.
func (c *Codec) Verify(raw string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(raw, &wireClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := tok.Claims.(*wireClaims)
	if !ok || !tok.Valid || claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}

	return &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
