package routes

import (
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/router"
)

// RegisterAdminRoutes registers the back-office API under /admin.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	adm := r.Group("/admin", orPassthrough(deps.Timeout))
	jsonBody := middleware.MaxBodySize(middleware.DefaultMaxBodySize)

	// Public admin routes
	adm.Post("/login", deps.AuthHandler.Login, jsonBody, orPassthrough(deps.Strict))
	adm.Post("/logout", deps.AuthHandler.Logout)

	guarded := adm.Group("", orPassthrough(deps.RequireAdmin))
	guarded.Post("/products/{id}/image", deps.ProductHandler.UploadImage,
		middleware.MaxBodySize(middleware.ImageMaxBodySize))

	// Protected admin routes
	protected := guarded.Group("", jsonBody)
	protected.Get("/me", deps.AuthHandler.Me)

	// Overview
	protected.Get("/dashboard", deps.DashboardHandler.Stats)
	protected.Get("/customers", deps.DashboardHandler.Customers)

	// Orders
	protected.Get("/orders", deps.OrderHandler.List)
	protected.Get("/orders/{id}", deps.OrderHandler.Get)
	protected.Patch("/orders/{id}/status", deps.OrderHandler.UpdateStatus)

	// Products
	protected.Post("/products", deps.ProductHandler.Create)
	protected.Put("/products/{id}", deps.ProductHandler.Update)
	protected.Delete("/products/{id}", deps.ProductHandler.Delete)
	protected.Post("/products/{id}/discount", deps.ProductHandler.Discount)

	// Custom PC requests
	protected.Get("/custom-pc", deps.CustomPCHandler.List)
	protected.Get("/custom-pc/{id}", deps.CustomPCHandler.Get)
	protected.Post("/custom-pc/{id}/approve", deps.CustomPCHandler.Approve)
	protected.Post("/custom-pc/{id}/reject", deps.CustomPCHandler.Reject)
	protected.Post("/custom-pc/{id}/complete", deps.CustomPCHandler.Complete)
	protected.Put("/custom-pc/{id}/notes", deps.CustomPCHandler.UpdateNotes)

	// Customer levels
	protected.Get("/levels", deps.LevelHandler.List)
	protected.Get("/levels/{email}", deps.LevelHandler.Get)
	protected.Post("/levels/{email}/xp", deps.LevelHandler.AwardXP)

	// Sellers
	protected.Get("/sellers", deps.SellerHandler.List)
	protected.Post("/sellers/{id}/approve", deps.SellerHandler.Approve)
	protected.Delete("/sellers/{id}", deps.SellerHandler.Delete)
}
