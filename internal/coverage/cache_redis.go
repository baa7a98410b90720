package coverage

import (
	"context"
	"encoding/json"
	"time"

	"coverage_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "coverage:"

// RedisCache shares the lookup cache across replicas. Redis errors degrade
// to cache misses; the lookup path recomputes instead of failing.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache wraps a Redis client as a Cache backend.
func NewRedisCache(client *redis.Client, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("redis cache read failed", "key", key, "error", err.Error())
		}
		return Result{}, false
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		if c.log != nil {
			c.log.Warn("redis cache entry corrupt", "key", key, "error", err.Error())
		}
		return Result{}, false
	}
	return result, true
}

func (c *RedisCache) Put(ctx context.Context, key string, value Result, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		if c.log != nil {
			c.log.Warn("redis cache marshal failed", "key", key, "error", err.Error())
		}
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("redis cache write failed", "key", key, "error", err.Error())
	}
}

var _ Cache = (*RedisCache)(nil)
