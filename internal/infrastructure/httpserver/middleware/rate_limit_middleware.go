package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// PerIP throttles requests by client address.
func (r *RateLimitMiddleware) PerIP() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.rateLimiter == nil {
				return next(c)
			}
			ip := c.RealIP()

			allowed, remaining, limit, reset, rlErr := r.rateLimiter.Allow(c.Request().Context(), ip)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("ip", ip).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !allowed {
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"ip": ip, "path": c.Request().URL.Path}).Info("request throttled")
				}
				return helpers.JSONError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			}
			return next(c)
		}
	}
}
