package middleware

import (
	"context"
	"net/http"

	"github.com/jokads/JokaTech/internal/auth"
	"github.com/jokads/JokaTech/internal/cookie"
)

const (
	// SessionContextKey holds the anonymous client session id.
	SessionContextKey contextKey = "client_session"
)

// ClientSession guarantees every request carries a client session id. A
// missing or malformed jokatech_session cookie is replaced by a fresh
// token, and the cookie is (re)issued with a sliding expiry.
func ClientSession(cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := cookie.Get(r, cookie.SessionCookieName)
			if !auth.ValidToken(session) {
				var err error
				session, err = auth.NewToken()
				if err != nil {
					respondInternalError(w, r, err)
					return
				}
			}
			cookies.SetSession(w, cookie.SessionCookieName, session, cookie.SessionMaxAge)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID returns "" outside of ClientSession.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionContextKey).(string); ok {
		return id
	}
	return ""
}

// WithSessionID scopes ctx to a session outside of the HTTP chain.
func WithSessionID(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}
