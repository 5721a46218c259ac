package configs

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Email     EmailConfig
	MagicLink MagicLinkConfig
	Session   SessionConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	// TrustedProxies lists CIDR ranges whose X-Forwarded-For is believed.
	TrustedProxies []string
	Environment    string
	MigrationsPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	// DeliveryMode is "strict" or "permissive".
	DeliveryMode string
}

type MagicLinkConfig struct {
	BaseURL    string
	TTL        time.Duration
	RateLimit  int
	RateWindow time.Duration
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
	// AdminCacheTTL bounds how long an admin allow-list answer is reused.
	AdminCacheTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	production := env == EnvProduction

	defaultMode := "permissive"
	if production {
		defaultMode = "strict"
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", nil),
			TrustedProxies: getListEnv("TRUSTED_PROXIES", nil),
			Environment:    env,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "cookbook"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:       getEnv("FROM_NAME", "Community Cookbook"),
			CompanyName:    getEnv("COMPANY_NAME", "The Community Cookbook Team"),
			DeliveryMode:   getEnv("EMAIL_DELIVERY_MODE", defaultMode),
		},
		MagicLink: MagicLinkConfig{
			BaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", ""), "/"),
			TTL:        getDurationEnv("MAGIC_LINK_TTL", 15*time.Minute),
			RateLimit:  getIntEnv("MAGIC_LINK_RATE_LIMIT", 5),
			RateWindow: getDurationEnv("MAGIC_LINK_RATE_WINDOW", time.Hour),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "cookbook_session"),
			MaxAge:     getDurationEnv("SESSION_MAX_AGE", 30*24*time.Hour),
			Secure:     getBoolEnv("SESSION_COOKIE_SECURE", production),
		},
		Redis: RedisConfig{
			Enabled:       getBoolEnv("REDIS_ENABLED", true),
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getIntEnv("REDIS_DB", 0),
			PoolSize:      getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns:  getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:   getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:  getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:   getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:   getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			AdminCacheTTL: getDurationEnv("REDIS_ADMIN_CACHE_TTL", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getIntEnv("RATE_LIMIT_REQUESTS", 20),
			Window:            getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:         getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:ip"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = getEnv("DATABASE_URL", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that would make the auth flow unusable.
func (c *Config) Validate() error {
	if c.MagicLink.BaseURL == "" {
		return fmt.Errorf("required environment variable APP_BASE_URL is not set")
	}
	switch c.Email.DeliveryMode {
	case "strict", "permissive":
	default:
		return fmt.Errorf("EMAIL_DELIVERY_MODE must be strict or permissive, got %q", c.Email.DeliveryMode)
	}
	if c.MagicLink.RateLimit <= 0 {
		return fmt.Errorf("MAGIC_LINK_RATE_LIMIT must be positive, got %d", c.MagicLink.RateLimit)
	}
	if c.MagicLink.TTL <= 0 || c.MagicLink.RateWindow <= 0 {
		return fmt.Errorf("MAGIC_LINK_TTL and MAGIC_LINK_RATE_WINDOW must be positive")
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not a CIDR range: %w", cidr, err)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
