package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TwoFAChallenge is the persisted challenge pair for one email.
type TwoFAChallenge struct {
	AttemptID string `json:"login_attempt_id"`
	Code      string `json:"code"`
}

// TwoFAChallengeStore persists one-time challenges in Redis, keyed
// <prefix>:<email> with a store-level TTL. The key carries at most one
// live challenge: Save overwrites unconditionally.
type TwoFAChallengeStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewTwoFAChallengeStore(redisClient redis.UniversalClient, prefix string) *TwoFAChallengeStore {
	if prefix == "" {
		prefix = "two_fa_code"
	}
	return &TwoFAChallengeStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *TwoFAChallengeStore) key(email string) string {
	return s.prefix + ":" + email
}

// Save replaces any existing challenge for email and resets the TTL.
func (s *TwoFAChallengeStore) Save(ctx context.Context, email string, challenge TwoFAChallenge, ttl time.Duration) error {
	encoded, err := json.Marshal(challenge)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(email), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// Get returns the live challenge for email, or [ErrNotFound] once the TTL
// has elapsed or no challenge was ever saved.
func (s *TwoFAChallengeStore) Get(ctx context.Context, email string) (TwoFAChallenge, error) {
	data, err := s.redis.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TwoFAChallenge{}, ErrNotFound
		}
		return TwoFAChallenge{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var challenge TwoFAChallenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return TwoFAChallenge{}, fmt.Errorf("decode challenge: %w", err)
	}
	return challenge, nil
}

// Delete removes the challenge for email. Deleting an absent or expired
// challenge is not an error.
func (s *TwoFAChallengeStore) Delete(ctx context.Context, email string) error {
	if err := s.redis.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}
