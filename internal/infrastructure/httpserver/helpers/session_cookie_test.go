package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetSessionCookie(c, CookieConfig{Secure: true}, "abc123")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "cookbook_session", ck.Name)
	assert.Equal(t, "abc123", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
}

func TestClearSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ClearSessionCookie(c, CookieConfig{Name: "sid"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestSessionCredential(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Empty(t, SessionCredential(c, CookieConfig{}))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cookbook_session", Value: "cred"})
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "cred", SessionCredential(c, CookieConfig{}))
}
