package storefront

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cart service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.Get(r.Context(), session)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Count handles GET /api/cart/count
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]int{"count": h.cart.Count(r.Context(), session)})
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	req := addItemRequest{Quantity: 1}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.ProductID == uuid.Nil {
		handler.ErrorResponse(w, r, domain.NewValidationError("cart.add", "product_id", "is required"))
		return
	}

	summary, err := h.cart.Add(r.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Update handles PUT /api/cart/items/{id}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	productID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req setQuantityRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.SetQuantity(r.Context(), session, productID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Remove handles DELETE /api/cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	productID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.Remove(r.Context(), session, productID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.cart.Clear(r.Context(), session); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
