package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "hesab:settings"

// Cache keeps the serialised settings in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached settings; ok is false on a miss.
func (c *Cache) Get(ctx context.Context) (Settings, bool, error) {
	if c == nil || c.client == nil {
		return Settings{}, false, nil
	}
	payload, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}
	var s Settings
	if err := json.Unmarshal(payload, &s); err != nil {
		return Settings{}, false, err
	}
	return s, true, nil
}

// Set stores s with the configured TTL.
func (c *Cache) Set(ctx context.Context, s Settings) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, raw, c.ttl).Err()
}

// Invalidate drops the cached copy.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey).Err()
}
