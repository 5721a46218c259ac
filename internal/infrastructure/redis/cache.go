package redis

import (
	"context"
	"errors"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

// RedisCache implements ports.Cache on top of any redis.Cmdable.
type RedisCache struct {
	r      redis.Cmdable
	prefix string
}

var _ ports.Cache = (*RedisCache)(nil)

// NewRedisCache creates a cache whose keys are namespaced under prefix.
func NewRedisCache(r redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{r: r, prefix: prefix}
}

func (c *RedisCache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.r.Set(ctx, c.namespaced(key), value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.r.Del(ctx, c.namespaced(key)).Err()
}
