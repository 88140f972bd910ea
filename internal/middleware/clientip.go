package middleware

import (
	"context"
	"net/http"
)

const (
	ClientIPContextKey contextKey = "client_ip"
)

// WithClientIP stores the client address resolved by GetClientIP in the
// context. Proxy headers are trusted, so the app must only be reachable
// through the reverse proxy in production.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ClientIPContextKey, GetClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIPFromContext returns "" when WithClientIP was not applied.
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPContextKey).(string); ok {
		return ip
	}
	return ""
}
