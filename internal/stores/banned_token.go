package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BannedTokenStore persists revoked tokens in Redis, keyed
// <prefix>:<token> with a store-level TTL. Because the TTL is the token's
// remaining lifetime at revocation, Redis expiry alone bounds growth to
// the set of currently-valid but banned tokens; no cleanup pass exists.
type BannedTokenStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewBannedTokenStore(redisClient redis.UniversalClient, prefix string) *BannedTokenStore {
	if prefix == "" {
		prefix = "banned_token"
	}
	return &BannedTokenStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *BannedTokenStore) key(token string) string {
	return s.prefix + ":" + token
}

// Add records token as banned for ttl. A non-positive ttl is a no-op: the
// token is already expired and needs no record.
func (s *BannedTokenStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// Contains reports whether token is currently banned.
func (s *BannedTokenStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return n > 0, nil
}
