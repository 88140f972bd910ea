package middleware

import (
	"context"
	"net/http"

	"github.com/jokads/JokaTech/internal/cookie"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/telemetry"
)

const (
	// AdminContextKey is the context key for the signed-in admin.
	AdminContextKey contextKey = "admin"
)

// AdminAuthenticator resolves an admin session token. It returns an
// EUNAUTHORIZED error for unknown or expired tokens.
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.AdminUser, error)
}

// RequireAdmin rejects requests without a live admin session with 401.
func RequireAdmin(authn AdminAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.AdminCookieName)
			if token == "" {
				respondUnauthorized(w, r)
				return
			}

			admin, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				switch domain.ErrorCode(err) {
				case domain.EUNAUTHORIZED, domain.ENOTFOUND:
					respondUnauthorized(w, r)
				default:
					respondInternalError(w, r, err)
				}
				return
			}

			telemetry.SetUser(r.Context(), admin.ID.String(), admin.Email)
			ctx := context.WithValue(r.Context(), AdminContextKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin returns nil outside of RequireAdmin.
func GetAdmin(ctx context.Context) *domain.AdminUser {
	admin, ok := ctx.Value(AdminContextKey).(*domain.AdminUser)
	if !ok {
		return nil
	}
	return admin
}
