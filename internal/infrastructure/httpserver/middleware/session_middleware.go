package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
)

// LoginEntryPath is where page requests without a session are sent.
const LoginEntryPath = "/"

type SessionMiddleware struct {
	gate   ports.AuthGateService
	cookie helpers.CookieConfig
	logger *logrus.Logger
}

func NewSessionMiddleware(gate ports.AuthGateService, cookie helpers.CookieConfig, logger *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{gate: gate, cookie: cookie, logger: logger}
}

type gateFunc func(c echo.Context, credential string) (*contributor.Contributor, error)

func (m *SessionMiddleware) guard(check gateFunc, page bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := helpers.SessionCredential(c, m.cookie)
			ct, err := check(c, credential)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrUnauthorized):
				if page {
					return c.Redirect(http.StatusSeeOther, LoginEntryPath)
				}
				return helpers.JSONError(c, http.StatusUnauthorized, "Authentication required")
			case errors.Is(err, auth.ErrForbidden):
				return helpers.JSONError(c, http.StatusForbidden, "Admin access required")
			default:
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).WithError(err).Error("session check failed")
				}
				return helpers.JSONError(c, http.StatusInternalServerError, "Internal server error")
			}

			helpers.SetContributor(c, ct)
			helpers.SetCredential(c, credential)
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"contributor_id": ct.ID, "path": c.Request().URL.Path}).Debug("session validated")
			}
			return next(c)
		}
	}
}

// RequirePage gates browser pages; a missing session redirects to the login entry point.
func (m *SessionMiddleware) RequirePage() echo.MiddlewareFunc {
	return m.guard(func(c echo.Context, credential string) (*contributor.Contributor, error) {
		return m.gate.RequireSession(c.Request().Context(), credential)
	}, true)
}

// RequireAPI gates JSON endpoints; a missing session is a 401.
func (m *SessionMiddleware) RequireAPI() echo.MiddlewareFunc {
	return m.guard(func(c echo.Context, credential string) (*contributor.Contributor, error) {
		return m.gate.RequireSession(c.Request().Context(), credential)
	}, false)
}

func (m *SessionMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.guard(func(c echo.Context, credential string) (*contributor.Contributor, error) {
		return m.gate.RequireAdmin(c.Request().Context(), credential)
	}, false)
}
