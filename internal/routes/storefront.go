package routes

import (
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing API. Every route
// works off the anonymous client session cookie.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	timeout := orPassthrough(deps.Timeout)
	strict := orPassthrough(deps.Strict)

	// The stream holds its connection open, so it sits outside the timeout.
	r.Get("/events", deps.EventsHandler.Stream)

	api := r.Group("/api", timeout, middleware.MaxBodySize(middleware.DefaultMaxBodySize))

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/{id}", deps.ProductHandler.Get)
	api.Get("/products/{id}/reviews", deps.ProductHandler.ListReviews)
	api.Post("/products/{id}/reviews", deps.ProductHandler.CreateReview, strict)
	api.Get("/categories", deps.ProductHandler.Categories)
	api.Get("/brands", deps.ProductHandler.Brands)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Get("/cart/count", deps.CartHandler.Count)
	api.Delete("/cart", deps.CartHandler.Clear)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Put("/cart/items/{id}", deps.CartHandler.Update)
	api.Delete("/cart/items/{id}", deps.CartHandler.Remove)

	// Checkout
	api.Post("/checkout", deps.CheckoutHandler.Checkout, strict)
	api.Post("/checkout/confirm", deps.CheckoutHandler.Confirm)

	// Favorites
	api.Get("/favorites", deps.FavoritesHandler.List)
	api.Post("/favorites", deps.FavoritesHandler.Add)
	api.Delete("/favorites/{id}", deps.FavoritesHandler.Remove)

	// Custom PC builder
	api.Get("/custom-pc/components", deps.CustomPCHandler.Components)
	api.Post("/custom-pc/quote", deps.CustomPCHandler.Quote)
	api.Post("/custom-pc", deps.CustomPCHandler.Submit, strict)

	// Marketplace
	api.Post("/sellers", deps.SellerHandler.Apply, strict)
}
