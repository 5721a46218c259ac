package httpserver

import (
	"net"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
	customMiddleware "github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	TrustedProxies []string
	Environment    string
	Cookie         helpers.CookieConfig
}

type ServerDeps struct {
	MagicLinkService   ports.MagicLinkService
	IdentityService    ports.IdentityService
	SessionService     ports.SessionService
	AuthGateService    ports.AuthGateService
	AuditService       ports.AuditService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	magicLinks     ports.MagicLinkService
	identities     ports.IdentityService
	sessions       ports.SessionService
	gate           ports.AuthGateService
	auditSvc       ports.AuditService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = newIPExtractor(serverConfig.TrustedProxies, logger)

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		magicLinks:     deps.MagicLinkService,
		identities:     deps.IdentityService,
		sessions:       deps.SessionService,
		gate:           deps.AuthGateService,
		auditSvc:       deps.AuditService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthGateService,
			deps.RateLimiterService,
			serverConfig.Cookie,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// newIPExtractor uses the socket peer address unless trusted proxy ranges are
// configured, in which case X-Forwarded-For is walked back to the first untrusted hop.
func newIPExtractor(trusted []string, logger *logrus.Logger) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			if logger != nil {
				logger.WithField("cidr", cidr).WithError(err).Warn("ignoring invalid trusted proxy range")
			}
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
