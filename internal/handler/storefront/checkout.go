package storefront

import (
	"net/http"
	"strings"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

// CheckoutHandler starts hosted checkout and confirms paid sessions.
type CheckoutHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout service.CheckoutService, orders service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		orders:   orders,
	}
}

// Checkout handles POST /api/checkout
//
// The response carries the hosted payment page URL; the client redirects
// there. The cart is already empty by the time this returns.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req service.CheckoutRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), session, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, result)
}

type confirmRequest struct {
	SessionID string `json:"session_id"`
}

// Confirm handles POST /api/checkout/confirm, called from the success page
// with the session_id Stripe appended to the success URL. Calling it again
// after a reload returns the same order with created=false.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req confirmRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.orders.ConfirmPayment(r.Context(), session, strings.TrimSpace(req.SessionID))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	handler.JSON(w, status, result)
}
