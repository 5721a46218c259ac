package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listAuthEvents(c echo.Context) error {
	var (
		email, action, contributorID string
		start, end                   time.Time
		filter                       audit.AuthEventFilter
	)
	err := echo.QueryParamsBinder(c).
		String("email", &email).
		String("action", &action).
		String("contributor_id", &contributorID).
		Time("start", &start, time.RFC3339).
		Time("end", &end, time.RFC3339).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return helpers.JSONError(c, http.StatusBadRequest, "invalid query parameters")
	}

	if email != "" {
		filter.Email = &email
	}
	if action != "" {
		a := audit.AuthAction(action)
		if !a.Valid() {
			return helpers.JSONError(c, http.StatusBadRequest, "unknown action")
		}
		filter.Action = &a
	}
	if contributorID != "" {
		id, err := uuid.Parse(contributorID)
		if err != nil {
			return helpers.JSONError(c, http.StatusBadRequest, "invalid contributor_id")
		}
		filter.ContributorID = &id
	}
	if !start.IsZero() {
		filter.StartTime = &start
	}
	if !end.IsZero() {
		filter.EndTime = &end
	}

	events, total, err := s.auditSvc.ListEvents(c.Request().Context(), &filter)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("failed to list auth events")
		}
		return helpers.JSONError(c, http.StatusInternalServerError, "Failed to list auth events")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}
