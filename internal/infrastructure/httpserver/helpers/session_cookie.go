package helpers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func (cfg CookieConfig) name() string {
	if cfg.Name == "" {
		return "cookbook_session"
	}
	return cfg.Name
}

// SessionCredential reads the session credential from the request cookie.
// A missing cookie yields an empty string.
func SessionCredential(c echo.Context, cfg CookieConfig) string {
	ck, err := c.Cookie(cfg.name())
	if err != nil {
		return ""
	}
	return ck.Value
}

func SetSessionCookie(c echo.Context, cfg CookieConfig, credential string) {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	c.SetCookie(&http.Cookie{
		Name:     cfg.name(),
		Value:    credential,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context, cfg CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
