package authcore

import (
	"context"
	"sync"
	"time"

	"github.com/avagner/authcore/password"
)

// In-memory store implementations. They satisfy the same contracts as
// the Redis and Postgres backends and are the default when the builder
// is given no external clients. State is process-local, so they suit
// tests and single-node deployments only.

// MemoryUserStore keeps identities in a map guarded by a RWMutex.
// Passwords are hashed through the same pool the SQL store uses, so
// swapping backends never changes the stored-credential format.
type MemoryUserStore struct {
	mu        sync.RWMutex
	records   map[string]Identity
	passwords *password.Pool
}

func NewMemoryUserStore(passwords *password.Pool) *MemoryUserStore {
	return &MemoryUserStore{
		records:   make(map[string]Identity),
		passwords: passwords,
	}
}

func (s *MemoryUserStore) Add(ctx context.Context, user User) error {
	key := user.Email.String()

	s.mu.RLock()
	_, exists := s.records[key]
	s.mu.RUnlock()
	if exists {
		return ErrUserAlreadyExists
	}

	// Hashing is slow, keep it outside the lock.
	hash, err := s.passwords.Hash(ctx, user.Password.Expose())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return ErrUserAlreadyExists
	}
	s.records[key] = Identity{
		Email:             user.Email,
		PasswordHash:      hash,
		RequiresTwoFactor: user.RequiresTwoFactor,
	}
	return nil
}

func (s *MemoryUserStore) Get(ctx context.Context, email Email) (Identity, error) {
	s.mu.RLock()
	identity, ok := s.records[email.String()]
	s.mu.RUnlock()
	if !ok {
		return Identity{}, ErrUserNotFound
	}
	return identity, nil
}

func (s *MemoryUserStore) Validate(ctx context.Context, email Email, pw Password) error {
	identity, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	ok, err := s.passwords.Verify(ctx, pw.Expose(), identity.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSecret
	}
	return nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := email.String()
	if _, ok := s.records[key]; !ok {
		return ErrUserNotFound
	}
	delete(s.records, key)
	return nil
}

// MemoryBannedTokenStore tracks revoked tokens with their expiry
// instants. Expired entries are pruned lazily on lookup.
type MemoryBannedTokenStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBannedTokenStore() *MemoryBannedTokenStore {
	return &MemoryBannedTokenStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryBannedTokenStore) Add(ctx context.Context, tok string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past its natural expiry, nothing to revoke.
		return nil
	}
	s.mu.Lock()
	s.entries[tok] = s.now().Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryBannedTokenStore) Contains(ctx context.Context, tok string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[tok]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.entries, tok)
		return false, nil
	}
	return true, nil
}

type memoryChallenge struct {
	attemptID LoginAttemptID
	code      TwoFACode
	expiresAt time.Time
}

// MemoryTwoFACodeStore keeps at most one pending challenge per email,
// expiring each after the TTL fixed at construction.
type MemoryTwoFACodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryChallenge
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryTwoFACodeStore(ttl time.Duration) *MemoryTwoFACodeStore {
	return &MemoryTwoFACodeStore{
		entries: make(map[string]memoryChallenge),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryTwoFACodeStore) Put(ctx context.Context, email Email, attemptID LoginAttemptID, code TwoFACode) error {
	s.mu.Lock()
	s.entries[email.String()] = memoryChallenge{
		attemptID: attemptID,
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryTwoFACodeStore) Get(ctx context.Context, email Email) (LoginAttemptID, TwoFACode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := email.String()
	challenge, ok := s.entries[key]
	if !ok {
		return LoginAttemptID{}, TwoFACode{}, ErrChallengeNotFound
	}
	if s.now().After(challenge.expiresAt) {
		delete(s.entries, key)
		return LoginAttemptID{}, TwoFACode{}, ErrChallengeNotFound
	}
	return challenge.attemptID, challenge.code, nil
}

func (s *MemoryTwoFACodeStore) Remove(ctx context.Context, email Email) error {
	s.mu.Lock()
	delete(s.entries, email.String())
	s.mu.Unlock()
	return nil
}

var _ UserStore = (*MemoryUserStore)(nil)
var _ BannedTokenStore = (*MemoryBannedTokenStore)(nil)
var _ TwoFACodeStore = (*MemoryTwoFACodeStore)(nil)
