package admin

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

// DashboardHandler serves the overview counters and the customer list.
type DashboardHandler struct {
	dashboard service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /admin/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, stats)
}

// Customers handles GET /admin/customers
func (h *DashboardHandler) Customers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.dashboard.Customers(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
	})
}
