// Package routes maps URL patterns to handlers.
package routes

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler/admin"
	"github.com/jokads/JokaTech/internal/handler/storefront"
	"github.com/jokads/JokaTech/internal/router"
)

// StorefrontDeps contains dependencies for the public API
type StorefrontDeps struct {
	ProductHandler   *storefront.ProductHandler
	CartHandler      *storefront.CartHandler
	CheckoutHandler  *storefront.CheckoutHandler
	FavoritesHandler *storefront.FavoritesHandler
	CustomPCHandler  *storefront.CustomPCHandler
	SellerHandler    *storefront.SellerHandler
	EventsHandler    *storefront.EventsHandler

	// Timeout wraps every route except the event stream.
	Timeout router.Middleware

	// Strict throttles checkout and form submissions.
	Strict router.Middleware
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	AuthHandler      *admin.AuthHandler
	DashboardHandler *admin.DashboardHandler
	OrderHandler     *admin.OrderHandler
	ProductHandler   *admin.ProductHandler
	CustomPCHandler  *admin.CustomPCHandler
	LevelHandler     *admin.LevelHandler
	SellerHandler    *admin.SellerHandler

	// RequireAdmin guards everything except login.
	RequireAdmin router.Middleware
	Timeout      router.Middleware
	Strict       router.Middleware
}

// WebhookDeps contains dependencies for webhook routes
type WebhookDeps struct {
	StripeHandler http.HandlerFunc
}

// OpsDeps contains the health and metrics endpoints
type OpsDeps struct {
	Health  http.HandlerFunc
	Metrics http.Handler

	// UploadsDir is served under /uploads when images are stored on disk.
	UploadsDir string
}

// passthrough stands in for an unset optional middleware.
func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(mw router.Middleware) router.Middleware {
	if mw == nil {
		return passthrough
	}
	return mw
}
