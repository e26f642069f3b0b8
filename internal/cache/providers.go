package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	providerListKey = "providers:list"
	providerListTTL = 60 * time.Second
)

// ProviderCache is a cache-aside layer for the anonymous provider listing.
// A nil *ProviderCache is valid and means caching is disabled; every method
// degrades to a miss, never to an error.
type ProviderCache struct {
	rdb *redis.Client
}

func NewProviderCache(redisURL string) *ProviderCache {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, provider cache disabled: %v", err)
		return nil
	}

	return &ProviderCache{rdb: redis.NewClient(opts)}
}

func (c *ProviderCache) GetList(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.rdb.Get(ctx, providerListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *ProviderCache) SetList(ctx context.Context, payload []byte) {
	if c == nil {
		return
	}

	if err := c.rdb.Set(ctx, providerListKey, payload, providerListTTL).Err(); err != nil {
		log.Println("provider cache set failed:", err)
	}
}

// Invalidate drops the cached listing; called on any provider, food or
// rating mutation.
func (c *ProviderCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.rdb.Del(ctx, providerListKey).Err(); err != nil {
		log.Println("provider cache invalidate failed:", err)
	}
}
