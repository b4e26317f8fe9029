package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// RedisCache is a Cache backed by Redis, for running several API replicas
// against one upstream quota. Redis being down degrades every Get to a miss
// and every Set to a no-op; the fetch path never sees the failure.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing Redis client. A non-positive TTL falls
// back to DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.OddsSnapshot, bool) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		fmt.Printf("⚠️  Redis cache read failed: %v\n", err)
		return nil, false
	}

	var snapshot models.OddsSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		fmt.Printf("⚠️  Discarding undecodable cache entry %s: %v\n", key, err)
		return nil, false
	}
	return &snapshot, true
}

func (c *RedisCache) Set(ctx context.Context, key string, snapshot *models.OddsSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		fmt.Printf("⚠️  Marshaling snapshot for cache failed: %v\n", err)
		return
	}

	if err := c.client.Set(ctx, c.redisKey(key), data, c.ttl).Err(); err != nil {
		fmt.Printf("⚠️  Redis cache write failed: %v\n", err)
	}
}

func (c *RedisCache) redisKey(key string) string {
	return "snapshot:" + key
}
