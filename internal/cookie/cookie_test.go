package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSession(t *testing.T) {
	rec := httptest.NewRecorder()
	NewConfig(true).SetSession(rec, SessionCookieName, "tok", SessionMaxAge)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, SessionMaxAge, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSetSessionWithExpiry(t *testing.T) {
	rec := httptest.NewRecorder()
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	NewConfig(false).SetSessionWithExpiry(rec, AdminCookieName, "tok", exp)

	c := rec.Result().Cookies()[0]
	assert.False(t, c.Secure)
	assert.True(t, exp.Equal(c.Expires))
}

func TestClearSession(t *testing.T) {
	rec := httptest.NewRecorder()
	NewConfig(false).ClearSession(rec, AdminCookieName)

	c := rec.Result().Cookies()[0]
	assert.Equal(t, AdminCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, Get(r, SessionCookieName))

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	assert.Equal(t, "abc", Get(r, SessionCookieName))
}
