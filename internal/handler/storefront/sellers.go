package storefront

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

type SellerHandler struct {
	sellers service.SellerService
}

func NewSellerHandler(sellers service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// Apply handles POST /api/sellers
func (h *SellerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var input service.SellerInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	seller, err := h.sellers.Apply(r.Context(), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, seller)
}
