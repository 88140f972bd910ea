// Package webhook receives payment provider callbacks.
package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jokads/JokaTech/internal/billing"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/jokads/JokaTech/internal/telemetry"
)

// maxPayloadBytes matches Stripe's documented upper bound for event bodies.
const maxPayloadBytes = 65536

// StripeHandler handles Stripe webhook events.
type StripeHandler struct {
	provider billing.Provider
	orders   service.OrderService
	logger   *slog.Logger
}

// NewStripeHandler creates a new Stripe webhook handler.
func NewStripeHandler(provider billing.Provider, orders service.OrderService, logger *slog.Logger) *StripeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripeHandler{
		provider: provider,
		orders:   orders,
		logger:   logger,
	}
}

// HandleWebhook handles POST /webhooks/stripe.
//
// The signature is verified before anything else. A verified event always
// gets a 200 unless reconciliation hits a server error, in which case 500
// asks Stripe to redeliver.
//
// Stripe CLI testing:
//
//	stripe listen --forward-to localhost:3000/webhooks/stripe
//	stripe trigger checkout.session.completed
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := middleware.GetLogger(r.Context(), h.logger)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "webhook.stripe", "Payload too large"))
			return
		}
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.stripe", "Error reading request body"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.stripe", "Missing signature"))
		return
	}

	event, err := h.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidWebhookSignature) {
			logger.Warn("stripe webhook signature rejected", "error", err)
			handler.ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "webhook.stripe", "Invalid signature"))
			return
		}
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINVALID, "webhook.stripe", "Invalid event payload"))
		return
	}

	logger.Info("stripe webhook received", "event_id", event.ID, "type", event.Type)

	if err := h.orders.ReconcileWebhook(r.Context(), event); err != nil {
		if domain.ErrorCode(err) == domain.EINTERNAL {
			telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
				"event_id":   event.ID,
				"event_type": event.Type,
			})
			handler.ErrorResponse(w, r, err)
			return
		}
		// Malformed but authentic events are acknowledged so Stripe stops
		// redelivering them.
		logger.Warn("stripe webhook not applied",
			"event_id", event.ID,
			"type", event.Type,
			"error", err,
		)
	}

	logger.Debug("stripe webhook processed",
		"event_id", event.ID,
		"duration", time.Since(start),
	)
	handler.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
