package storefront

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

// CustomPCHandler serves the PC builder.
type CustomPCHandler struct {
	products service.ProductService
	customPC service.CustomPCService
}

func NewCustomPCHandler(products service.ProductService, customPC service.CustomPCService) *CustomPCHandler {
	return &CustomPCHandler{
		products: products,
		customPC: customPC,
	}
}

// Components handles GET /api/custom-pc/components
func (h *CustomPCHandler) Components(w http.ResponseWriter, r *http.Request) {
	groups, err := h.products.Components(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{"components": groups})
}

// Quote handles POST /api/custom-pc/quote
func (h *CustomPCHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var sel service.ComponentSelection
	if err := handler.Decode(r, &sel); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	quote, err := h.customPC.Quote(r.Context(), sel)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, quote)
}

// Submit handles POST /api/custom-pc
func (h *CustomPCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub service.CustomPCSubmission
	if err := handler.Decode(r, &sub); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	req, err := h.customPC.Submit(r.Context(), sub)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, req)
}
