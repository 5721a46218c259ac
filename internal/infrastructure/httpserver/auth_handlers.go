package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/recipe-submissions/internal/utils"
)

const (
	wizardEntryPath = "/submit/step-1"
	verifyErrorPath = "/auth/verify-error"
)

func (s *Server) requestMagicLink(c echo.Context) error {
	var req auth.MagicLinkRequest
	if err := c.Bind(&req); err != nil {
		magicLinkRequests.WithLabelValues("invalid").Inc()
		return helpers.JSONError(c, http.StatusBadRequest, "Valid email is required")
	}

	err := s.magicLinks.RequestLink(c.Request().Context(), req.Email)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidEmail):
		magicLinkRequests.WithLabelValues("invalid").Inc()
		return helpers.JSONError(c, http.StatusBadRequest, "Valid email is required")
	case errors.Is(err, auth.ErrRateLimited):
		magicLinkRequests.WithLabelValues("rate_limited").Inc()
		return helpers.JSONError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
	default:
		magicLinkRequests.WithLabelValues("error").Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": req.Email, "ip": c.RealIP()}).WithError(err).Error("magic link request failed")
		}
		return helpers.JSONError(c, http.StatusInternalServerError, "Failed to send magic link")
	}

	magicLinkRequests.WithLabelValues("sent").Inc()
	s.recordAuthEvent(c, audit.ActionLinkRequested, nil, utils.NormalizeEmail(req.Email), nil)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Magic link sent! Check your email.",
	})
}

func verifyErrorURL(reason auth.VerifyFailureReason) string {
	return verifyErrorPath + "?reason=" + string(reason)
}

// verifyMagicLink is the landing point of the emailed link.
func (s *Server) verifyMagicLink(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		magicLinkVerifications.WithLabelValues("no_token").Inc()
		return c.Redirect(http.StatusSeeOther, verifyErrorURL(auth.ReasonNoToken))
	}

	ctx := c.Request().Context()
	email, err := s.magicLinks.Verify(ctx, token)
	if err != nil {
		var result string
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			result = "expired"
		case errors.Is(err, auth.ErrTokenNotFound):
			result = "not_found"
		default:
			magicLinkVerifications.WithLabelValues("error").Inc()
			if s.logger != nil {
				s.logger.WithField("ip", c.RealIP()).WithError(err).Error("magic link verification failed")
			}
			return helpers.JSONError(c, http.StatusInternalServerError, "Failed to verify magic link")
		}
		magicLinkVerifications.WithLabelValues(result).Inc()
		s.recordAuthEvent(c, audit.ActionLoginFailed, nil, "", map[string]any{"reason": result})
		return c.Redirect(http.StatusSeeOther, verifyErrorURL(auth.ReasonExpired))
	}

	ct, err := s.identities.Resolve(ctx, email)
	if err != nil {
		magicLinkVerifications.WithLabelValues("error").Inc()
		if s.logger != nil {
			s.logger.WithField("email", email).WithError(err).Error("failed to resolve contributor")
		}
		return helpers.JSONError(c, http.StatusInternalServerError, "Failed to verify magic link")
	}

	credential, err := s.sessions.Open(ctx, ct.ID)
	if err != nil {
		magicLinkVerifications.WithLabelValues("error").Inc()
		if s.logger != nil {
			s.logger.WithField("contributor_id", ct.ID).WithError(err).Error("failed to open session")
		}
		return helpers.JSONError(c, http.StatusInternalServerError, "Failed to verify magic link")
	}

	helpers.SetSessionCookie(c, s.config.Cookie, credential)
	magicLinkVerifications.WithLabelValues("success").Inc()
	s.recordAuthEvent(c, audit.ActionLogin, &ct.ID, ct.Email, map[string]any{"method": "magic_link"})
	return c.Redirect(http.StatusSeeOther, wizardEntryPath)
}

// logout always succeeds from the client's point of view; the cookie is expired even
// when the store-side revoke fails.
func (s *Server) logout(c echo.Context) error {
	ctx := c.Request().Context()
	credential := helpers.SessionCredential(c, s.config.Cookie)

	if credential != "" {
		ct, err := s.sessions.Close(ctx, credential)
		if err != nil {
			if s.logger != nil {
				s.logger.WithField("ip", c.RealIP()).WithError(err).Error("failed to close session")
			}
		} else if ct != nil {
			s.recordAuthEvent(c, audit.ActionLogout, &ct.ID, ct.Email, nil)
		}
	}

	helpers.ClearSessionCookie(c, s.config.Cookie)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// currentSession returns the signed-in contributor.
func (s *Server) currentSession(c echo.Context) error {
	ct, err := helpers.GetContributorFromContext(c)
	if err != nil {
		return err
	}
	isAdmin, err := s.gate.IsAdmin(c.Request().Context(), ct.Email)
	if err != nil && s.logger != nil {
		s.logger.WithField("contributor_id", ct.ID).WithError(err).Warn("admin lookup failed; reporting non-admin")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"contributor": ct.View(isAdmin)})
}

// recordAuthEvent writes an audit row without affecting the response.
func (s *Server) recordAuthEvent(c echo.Context, action audit.AuthAction, contributorID *uuid.UUID, email string, details map[string]any) {
	if s.auditSvc == nil {
		return
	}
	var d any
	if len(details) > 0 {
		d = details
	}
	err := s.auditSvc.Record(c.Request().Context(), &audit.RecordAuthEventRequest{
		ContributorID: contributorID,
		Email:         email,
		Action:        action,
		Details:       d,
		IPAddress:     c.RealIP(),
		UserAgent:     c.Request().UserAgent(),
	})
	if err != nil && s.logger != nil {
		s.logger.WithField("action", action).WithError(err).Warn("failed to record auth event")
	}
}
