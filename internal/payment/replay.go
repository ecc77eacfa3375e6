package payment

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ReplayStore records seen webhook event ids so redelivered events are
// acknowledged without being dispatched twice.
type ReplayStore interface {
	// Remember marks the key as seen and reports whether it was fresh.
	Remember(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisReplayStore implements ReplayStore on Redis SETNX.
type RedisReplayStore struct {
	Client *redis.Client
	Prefix string
}

// Remember implements ReplayStore.
func (s RedisReplayStore) Remember(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "wh:evt:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return s.Client.SetNX(ctx, prefix+key, "1", ttl).Result()
}
