package routes

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jokads/JokaTech/internal/cookie"
	"github.com/jokads/JokaTech/internal/handler/admin"
	"github.com/jokads/JokaTech/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortCircuit answers with status and records the paths it saw, so
// handlers behind it are never reached.
func shortCircuit(status int, seen *[]string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*seen = append(*seen, r.URL.Path)
			w.WriteHeader(status)
		})
	}
}

func newTestRouter(t *testing.T) (*router.Router, *[]string, *[]string) {
	t.Helper()
	var timedOut, guarded []string

	r := router.New()
	require.NotPanics(t, func() {
		RegisterStorefrontRoutes(r, StorefrontDeps{
			Timeout: shortCircuit(http.StatusServiceUnavailable, &timedOut),
		})
		RegisterAdminRoutes(r, AdminDeps{
			AuthHandler:  admin.NewAuthHandler(nil, cookie.NewConfig(false), slog.Default()),
			RequireAdmin: shortCircuit(http.StatusUnauthorized, &guarded),
		})
		RegisterWebhookRoutes(r, WebhookDeps{StripeHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}})
		RegisterOpsRoutes(r, OpsDeps{Health: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}})
	}, "patterns must not conflict")

	return r, &timedOut, &guarded
}

func TestRoutes_AdminGuard(t *testing.T) {
	r, _, guarded := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/admin/orders", http.StatusUnauthorized},
		{http.MethodPatch, "/admin/orders/5f0c/status", http.StatusUnauthorized},
		{http.MethodDelete, "/admin/products/5f0c", http.StatusUnauthorized},
		{http.MethodPost, "/admin/levels/ana@example.com/xp", http.StatusUnauthorized},
		{http.MethodPost, "/admin/logout", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
	assert.NotContains(t, *guarded, "/admin/logout")
	assert.Len(t, *guarded, 4)
}

func TestRoutes_EventStreamSkipsTimeout(t *testing.T) {
	r, timedOut, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	// No client session in the request, so the stream refuses it.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, []string{"/api/cart"}, *timedOut)
}

func TestRoutes_OpsAndFallback(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/webhooks/stripe", http.StatusAccepted},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.wantStatus, rec.Code, tt.path)
	}
}
