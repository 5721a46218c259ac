package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository stores fixed-window request counters in Redis.
type RateLimitRedisRepository struct {
	r   redis.Cmdable
	now func() time.Time
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r, now: time.Now}
}

// IncrementWindow increments the counter for key in the window containing now.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := repo.now().Truncate(window)
	redisKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}
