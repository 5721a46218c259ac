package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/recipe-submissions/configs"
	"github.com/avatarctic/recipe-submissions/internal/application/services"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/db"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/email"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/health"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/redis"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/repositories"
)

func newLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(&cfg.Log)
	logger.WithField("environment", cfg.Server.Environment).Info("Starting recipe submissions service...")

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()
	logger.Info("Connected to database successfully")

	if err := database.Migrate(cfg.Server.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	healthCheckers := []ports.HealthChecker{health.NewDBHealthChecker(database)}

	magicLinkRepo := repositories.NewMagicLinkRepository(database, logger)
	contributorRepo := repositories.NewContributorRepository(database, logger)
	adminRepo := repositories.NewAdminRepository(database, logger)
	auditRepo := repositories.NewAuditRepository(database, logger)

	limiterConfig := &services.RateLimiterConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}
	var rateLimiter ports.RateLimiterService
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")

		cache := redis.NewRedisCache(redisClient, "cookbook")
		adminRepo = repositories.NewCachingAdminRepository(adminRepo, cache, cfg.Redis.AdminCacheTTL)
		rateLimiter = services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(redisClient), limiterConfig, logger)
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
	} else {
		logger.Warn("Redis disabled; using in-process rate limiting")
		rateLimiter = services.NewMemoryRateLimiter(limiterConfig)
	}

	var sender ports.MagicLinkSender
	if cfg.Email.SendGridAPIKey != "" {
		sender, err = email.NewSendGridSender(&email.SenderConfig{
			SendGridAPIKey: cfg.Email.SendGridAPIKey,
			FromEmail:      cfg.Email.FromEmail,
			FromName:       cfg.Email.FromName,
			CompanyName:    cfg.Email.CompanyName,
			LinkTTL:        cfg.MagicLink.TTL,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize email sender:", err)
		}
	} else {
		logger.Warn("SENDGRID_API_KEY not set; magic links will not be emailed")
		sender = email.NewLogSender(logger)
	}
	sender = email.NewDeliveryPolicy(sender, auth.ParseDeliveryMode(cfg.Email.DeliveryMode), logger)

	magicLinkService := services.NewMagicLinkService(magicLinkRepo, sender, &services.MagicLinkConfig{
		BaseURL:    cfg.MagicLink.BaseURL,
		TTL:        cfg.MagicLink.TTL,
		RateLimit:  cfg.MagicLink.RateLimit,
		RateWindow: cfg.MagicLink.RateWindow,
	}, logger)
	identityService := services.NewIdentityService(contributorRepo, logger)
	sessionService := services.NewSessionService(contributorRepo, logger)
	gateService := services.NewAuthGateService(sessionService, adminRepo, logger)
	auditService := services.NewAuditService(auditRepo, logger)

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Environment:    cfg.Server.Environment,
		Cookie: helpers.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		},
	}

	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		MagicLinkService:   magicLinkService,
		IdentityService:    identityService,
		SessionService:     sessionService,
		AuthGateService:    gateService,
		AuditService:       auditService,
		RateLimiterService: rateLimiter,
		HealthCheckers:     healthCheckers,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
