// Package storefront serves the customer-facing JSON API.
package storefront

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/middleware"
)

// sessionID returns the client session set by middleware.ClientSession.
func sessionID(r *http.Request) (string, error) {
	session := middleware.GetSessionID(r.Context())
	if session == "" {
		return "", domain.ErrSessionRequired
	}
	return session, nil
}
