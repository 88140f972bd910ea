package admin

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/shopspring/decimal"
)

// SellerHandler reviews marketplace seller applications.
type SellerHandler struct {
	sellers service.SellerService
}

func NewSellerHandler(sellers service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// List handles GET /admin/sellers
func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{"sellers": sellers})
}

// Approve handles POST /admin/sellers/{id}/approve
func (h *SellerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req struct {
		CommissionRate decimal.Decimal `json:"commission_rate"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	seller, err := h.sellers.Approve(r.Context(), id, req.CommissionRate)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, seller)
}

// Delete handles DELETE /admin/sellers/{id}
func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.sellers.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
