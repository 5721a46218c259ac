package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
)

type ctxKey string

const (
	keyContributor ctxKey = "contributor"
	keyCredential  ctxKey = "session_credential"
)

func SetContributor(c echo.Context, ct *contributor.Contributor) { c.Set(string(keyContributor), ct) }
func GetContributorRaw(c echo.Context) (*contributor.Contributor, bool) {
	v := c.Get(string(keyContributor))
	ct, ok := v.(*contributor.Contributor)
	return ct, ok && ct != nil
}

func SetCredential(c echo.Context, credential string) { c.Set(string(keyCredential), credential) }
func GetCredentialRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyCredential))
	s, ok := v.(string)
	return s, ok
}
