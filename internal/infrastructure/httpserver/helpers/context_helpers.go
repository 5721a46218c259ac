package helpers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func JSONError(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorResponse{Error: msg})
}

// GetContributorFromContext returns the contributor placed by the session gate.
func GetContributorFromContext(c echo.Context) (*contributor.Contributor, error) {
	ct, ok := GetContributorRaw(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session context")
	}
	return ct, nil
}
