package health

import (
	"context"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type dbHealthChecker struct{ db pinger }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.Ping(ctx) }

type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewDBHealthChecker probes the Postgres pool.
func NewDBHealthChecker(db pinger) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker probes Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}
