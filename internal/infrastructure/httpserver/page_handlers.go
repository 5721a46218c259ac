package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
)

var wizardSteps = map[string]bool{
	"step-1": true, "step-2": true, "step-3": true, "step-4": true,
	"step-5": true, "step-6": true, "step-7": true, "thank-you": true,
}

func (s *Server) dashboardPage(c echo.Context) error {
	ct, err := helpers.GetContributorFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page":        "dashboard",
		"contributor": ct.View(false),
	})
}

func (s *Server) submitPage(c echo.Context) error {
	step := c.Param("step")
	if !wizardSteps[step] {
		return helpers.JSONError(c, http.StatusNotFound, "Unknown submission step")
	}
	ct, err := helpers.GetContributorFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page":        "submit",
		"step":        step,
		"contributor": ct.View(false),
	})
}

var verifyErrorMessages = map[auth.VerifyFailureReason]string{
	auth.ReasonNoToken: "This sign-in link is incomplete. Request a new one.",
	auth.ReasonExpired: "This sign-in link has expired or was already used. Request a new one.",
}

// verifyErrorPage explains why a sign-in link was rejected.
func (s *Server) verifyErrorPage(c echo.Context) error {
	reason := auth.VerifyFailureReason(c.QueryParam("reason"))
	msg, ok := verifyErrorMessages[reason]
	if !ok {
		reason = auth.ReasonExpired
		msg = verifyErrorMessages[reason]
	}
	return c.JSON(http.StatusOK, map[string]string{"reason": string(reason), "error": msg})
}
