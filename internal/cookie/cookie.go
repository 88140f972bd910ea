// Package cookie sets and clears the storefront's session cookies.
package cookie

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName identifies the anonymous browser session that owns
	// the cart, favorites and pending order.
	SessionCookieName = "jokatech_session"

	// AdminCookieName carries the admin session token.
	AdminCookieName = "jokatech_admin"

	// SessionMaxAge matches the client-state TTL.
	SessionMaxAge = 30 * 24 * 60 * 60
)

// Config holds cookie attributes shared by every cookie the app writes.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	Secure bool
}

func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession writes an HttpOnly, SameSite=Lax cookie on path "/".
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSessionWithExpiry is SetSession with an absolute expiry.
func (c *Config) SetSessionWithExpiry(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes a cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
