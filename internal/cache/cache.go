package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/GreenvaleServices/lawn-portal/internal/config"
)

const feedTTL = 30 * time.Second

// FeedCache keeps the staff dashboard "recent" feeds out of the database on
// every poll. A nil *FeedCache (no REDIS_ADDR configured) is a no-op.
type FeedCache struct {
	rdb *redis.Client
}

func New(cfg *config.Config) *FeedCache {
	if cfg.RedisAddr == "" {
		return nil
	}

	return &FeedCache{
		rdb: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
	}
}

// Get unmarshals the cached feed into dest, reporting whether it was present.
func (c *FeedCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, dest) == nil
}

func (c *FeedCache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	// A failed write only costs a cache miss on the next poll.
	c.rdb.Set(ctx, key, raw, feedTTL)
}

func (c *FeedCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
