package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadWithSingleflight coalesces concurrent cache misses for key into a single loader
// call and caches the result.
func loadWithSingleflight[T any](cache ports.Cache, ctx context.Context, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	if v, ok := cacheGet[T](cache, ctx, key); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[T](cache, ctx, key); ok {
			return *v, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetSilently(cache, ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	return v, nil
}

// CachingAdminRepository decorates an AdminRepository with cache-aside.
// The allow-list is maintained out of band, so entries only age out by ttl.
type CachingAdminRepository struct {
	inner ports.AdminRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingAdminRepository(inner ports.AdminRepository, cache ports.Cache, ttl time.Duration) ports.AdminRepository {
	return &CachingAdminRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingAdminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	return loadWithSingleflight(c.cache, ctx, "admin:email:"+email, c.ttl, func() (bool, error) {
		return c.inner.IsAdmin(ctx, email)
	})
}

var _ ports.AdminRepository = (*CachingAdminRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
