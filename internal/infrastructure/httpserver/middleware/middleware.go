package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	Session   *SessionMiddleware
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	gate ports.AuthGateService,
	rateLimiterService ports.RateLimiterService,
	cookie helpers.CookieConfig,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		Session:   NewSessionMiddleware(gate, cookie, logger),
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:   NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
