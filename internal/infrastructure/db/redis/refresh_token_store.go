package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore tracks live refresh-token jtis in Redis.
// Key format: rt:<jti>, expiring with the token itself so the allowlist
// never outlives what it protects.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Add allowlists a freshly issued jti for ttl.
func (s *RefreshTokenStore) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("track refresh jti: %w", err)
	}
	return nil
}

// Consume atomically removes the jti and reports whether it was live.
// GETDEL makes consumption single-use: two concurrent refreshes with the
// same token race on the same key and exactly one wins.
func (s *RefreshTokenStore) Consume(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume refresh jti: %w", err)
	}
	return true, nil
}

func (s *RefreshTokenStore) key(jti string) string {
	return "rt:" + jti
}
