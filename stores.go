package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/avagner/authcore/internal/stores"
	"github.com/avagner/authcore/password"
)

// This file adapts the backends in internal/stores to the root store
// interfaces: value types in, plain strings down, store errors mapped
// into the root taxonomy on the way back up.

// RedisBannedTokenStore is the shared [BannedTokenStore] backend: every
// server instance pointed at the same Redis observes the same
// revocations.
type RedisBannedTokenStore struct {
	inner *stores.BannedTokenStore
}

func NewRedisBannedTokenStore(client redis.UniversalClient, prefix string) *RedisBannedTokenStore {
	return &RedisBannedTokenStore{inner: stores.NewBannedTokenStore(client, prefix)}
}

func (s *RedisBannedTokenStore) Add(ctx context.Context, tok string, ttl time.Duration) error {
	if err := s.inner.Add(ctx, tok, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisBannedTokenStore) Contains(ctx context.Context, tok string) (bool, error) {
	banned, err := s.inner.Contains(ctx, tok)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return banned, nil
}

// RedisTwoFACodeStore is the shared [TwoFACodeStore] backend. The
// challenge TTL is fixed at construction.
type RedisTwoFACodeStore struct {
	inner *stores.TwoFAChallengeStore
	ttl   time.Duration
}

func NewRedisTwoFACodeStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisTwoFACodeStore {
	return &RedisTwoFACodeStore{
		inner: stores.NewTwoFAChallengeStore(client, prefix),
		ttl:   ttl,
	}
}

func (s *RedisTwoFACodeStore) Put(ctx context.Context, email Email, attemptID LoginAttemptID, code TwoFACode) error {
	challenge := stores.TwoFAChallenge{
		AttemptID: attemptID.String(),
		Code:      code.Expose(),
	}
	if err := s.inner.Save(ctx, email.String(), challenge, s.ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisTwoFACodeStore) Get(ctx context.Context, email Email) (LoginAttemptID, TwoFACode, error) {
	challenge, err := s.inner.Get(ctx, email.String())
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return LoginAttemptID{}, TwoFACode{}, ErrChallengeNotFound
		}
		return LoginAttemptID{}, TwoFACode{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	attemptID, err := ParseLoginAttemptID(challenge.AttemptID)
	if err != nil {
		return LoginAttemptID{}, TwoFACode{}, fmt.Errorf("%w: corrupt challenge record", ErrUnexpected)
	}
	code, err := ParseTwoFACode(challenge.Code)
	if err != nil {
		return LoginAttemptID{}, TwoFACode{}, fmt.Errorf("%w: corrupt challenge record", ErrUnexpected)
	}
	return attemptID, code, nil
}

func (s *RedisTwoFACodeStore) Remove(ctx context.Context, email Email) error {
	if err := s.inner.Delete(ctx, email.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// PostgresUserStore is the SQL-backed [UserStore]. Uniqueness is enforced
// by the primary key at insert time.
type PostgresUserStore struct {
	inner *stores.PostgresUserStore
}

func NewPostgresUserStore(db *gorm.DB, passwords *password.Pool) (*PostgresUserStore, error) {
	inner, err := stores.NewPostgresUserStore(db, passwords)
	if err != nil {
		return nil, err
	}
	return &PostgresUserStore{inner: inner}, nil
}

// Migrate creates or updates the users table.
func (s *PostgresUserStore) Migrate() error {
	return s.inner.Migrate()
}

func (s *PostgresUserStore) Add(ctx context.Context, user User) error {
	err := s.inner.Add(ctx, user.Email.String(), user.Password.Expose(), user.RequiresTwoFactor)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stores.ErrDuplicate):
		return ErrUserAlreadyExists
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (s *PostgresUserStore) Get(ctx context.Context, email Email) (Identity, error) {
	record, err := s.inner.Get(ctx, email.String())
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return Identity{}, ErrUserNotFound
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	storedEmail, err := ParseEmail(record.Email)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: corrupt identity record", ErrUnexpected)
	}
	return Identity{
		Email:             storedEmail,
		PasswordHash:      record.PasswordHash,
		RequiresTwoFactor: record.RequiresTwoFactor,
	}, nil
}

func (s *PostgresUserStore) Validate(ctx context.Context, email Email, pw Password) error {
	err := s.inner.Validate(ctx, email.String(), pw.Expose())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stores.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, stores.ErrSecretMismatch):
		return ErrInvalidSecret
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (s *PostgresUserStore) Delete(ctx context.Context, email Email) error {
	err := s.inner.Delete(ctx, email.String())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stores.ErrNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
