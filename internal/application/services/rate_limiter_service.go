package services

import (
	"context"
	"sync"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiterConfig groups configuration parameters for the rate limiters.
type RateLimiterConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

func (c *RateLimiterConfig) withDefaults() RateLimiterConfig {
	out := RateLimiterConfig{RequestsPerWindow: 20, Window: time.Minute, KeyPrefix: "ratelimit:ip"}
	if c == nil {
		return out
	}
	if c.RequestsPerWindow > 0 {
		out.RequestsPerWindow = c.RequestsPerWindow
	}
	if c.Window > 0 {
		out.Window = c.Window
	}
	if c.KeyPrefix != "" {
		out.KeyPrefix = c.KeyPrefix
	}
	return out
}

// RateLimiterService is a fixed-window limiter over shared counters, so limits hold
// across every instance that talks to the same Redis.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	cfg    RateLimiterConfig
	logger *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	return &RateLimiterService{repo: repo, cfg: cfg.withDefaults(), logger: logger}
}

func (s *RateLimiterService) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	limit := s.cfg.RequestsPerWindow
	ttl := s.cfg.Window * 2
	count, windowStart, err := s.repo.IncrementWindow(ctx, key, s.cfg.Window, s.cfg.KeyPrefix, ttl)
	reset := windowStart.Add(s.cfg.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Error("rate limiter: failed to increment window")
		}
		// fail open
		return true, limit, limit, reset, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "count": count, "limit": limit}).Debug("rate limiter window state")
	}
	if count > limit {
		return false, 0, limit, reset, nil
	}
	return true, limit - count, limit, reset, nil
}

// MemoryRateLimiter is a per-process token bucket limiter used when Redis is disabled.
type MemoryRateLimiter struct {
	cfg         RateLimiterConfig
	limit       rate.Limit
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryRateLimiter(cfg *RateLimiterConfig) *MemoryRateLimiter {
	c := cfg.withDefaults()
	return &MemoryRateLimiter{
		cfg:         c,
		limit:       rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds()),
		limiters:    map[string]*rate.Limiter{},
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (m *MemoryRateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastCleanup) >= m.cfg.Window {
		m.lastCleanup = now
		// A full bucket means the key has been idle for at least a window.
		for k, l := range m.limiters {
			if l.TokensAt(now) >= float64(m.cfg.RequestsPerWindow) {
				delete(m.limiters, k)
			}
		}
	}

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.limit, m.cfg.RequestsPerWindow)
		m.limiters[key] = l
	}
	return l
}

func (m *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	now := m.now()
	l := m.limiterFor(key, now)
	allowed := l.AllowN(now, 1)

	tokens := l.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}
	missing := float64(m.cfg.RequestsPerWindow) - tokens
	reset := now.Add(time.Duration(missing / float64(m.limit) * float64(time.Second)))
	return allowed, remaining, m.cfg.RequestsPerWindow, reset, nil
}

var (
	_ ports.RateLimiterService = (*RateLimiterService)(nil)
	_ ports.RateLimiterService = (*MemoryRateLimiter)(nil)
)
