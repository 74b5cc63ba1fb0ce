package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores computed summaries so repeated dashboard loads do not rescan
// the whole population. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (*DashboardSummary, bool, error)
	Set(ctx context.Context, key string, summary *DashboardSummary, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a redis client as a summary cache.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (*DashboardSummary, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the
		// next Set.
		return nil, false, nil
	}
	return &summary, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, summary *DashboardSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
