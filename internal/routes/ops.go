package routes

import (
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/router"
)

// RegisterWebhookRoutes registers provider callbacks. They authenticate by
// signature, not by cookie, and are exempt from CSRF.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/webhooks/stripe", deps.StripeHandler, middleware.MaxBodySize(middleware.WebhookMaxBodySize))
}

// RegisterOpsRoutes registers health, metrics, uploaded files and the JSON
// 404 fallback.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	if deps.Health != nil {
		r.Get("/health", deps.Health)
	}
	if deps.Metrics != nil {
		r.Handle("GET", "/metrics", deps.Metrics)
	}
	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
	}
	r.NotFound(router.NotFound)
}
