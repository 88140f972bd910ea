package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jokads/JokaTech/internal/billing"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/shopspring/decimal"
)

// DefaultCountry is used when the checkout form leaves country blank.
const DefaultCountry = "Luxembourg"

// ShippingLineName labels the shipping fee on the payment page.
const ShippingLineName = "Envio"

// CheckoutService turns the session's cart into a hosted payment session.
type CheckoutService interface {
	// Checkout validates the customer details, opens a payment session for
	// the cart, stores the pending order and empties the cart. When the
	// payment provider fails, the cart and any earlier pending order are
	// left as they were.
	Checkout(ctx context.Context, session string, req CheckoutRequest) (*CheckoutResult, error)
}

// CheckoutRequest is the checkout form.
type CheckoutRequest struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"required,max=40"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"max=100"`
}

func (r *CheckoutRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	r.Country = strings.TrimSpace(r.Country)
	if r.Country == "" {
		r.Country = DefaultCountry
	}
}

// ShippingAddress formats "address, city, postalCode, country".
func (r CheckoutRequest) ShippingAddress() string {
	return strings.Join([]string{r.Address, r.City, r.PostalCode, r.Country}, ", ")
}

// CheckoutResult is where the shopper is sent to pay.
type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type checkoutService struct {
	store   clientstore.Store
	bus     events.Bus
	billing billing.Provider
	baseURL string
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewCheckoutService creates a CheckoutService. baseURL is the public
// storefront origin used for the payment return URLs.
func NewCheckoutService(store clientstore.Store, bus events.Bus, provider billing.Provider, baseURL string, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CheckoutService {
	return &checkoutService{
		store:   store,
		bus:     bus,
		billing: provider,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, session string, req CheckoutRequest) (*CheckoutResult, error) {
	const op = "checkout.create"
	if session == "" {
		return nil, domain.ErrSessionRequired
	}

	req.normalize()
	if err := validateStruct(op, req); err != nil {
		s.metrics.RecordCheckoutFailed("validation")
		return nil, err
	}

	cart, err := clientstore.Load[domain.Cart](ctx, s.store, s.logger, session, clientstore.KeyCart)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		s.metrics.RecordCheckoutFailed("empty_cart")
		return nil, domain.NewValidationError(op, "cart", "is empty")
	}

	totals := pricing.Totals(pricing.LinesFromCart(cart))
	s.metrics.RecordCheckoutStarted()

	checkout, err := s.billing.CreateCheckoutSession(ctx, billing.CreateCheckoutSessionParams{
		Items: lineItems(cart, totals.Shipping),
		Customer: billing.CustomerInfo{
			Name:    req.FullName,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.ShippingAddress(),
		},
		SuccessURL: s.baseURL + "/sucesso?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.baseURL + "/carrinho",
		Metadata: map[string]string{
			"item_count": strconv.Itoa(cart.Count()),
			"total":      pricing.Display(totals.Total),
		},
		IdempotencyKey: checkoutIdempotencyKey(session, req, cart),
	})
	if err != nil {
		s.metrics.RecordCheckoutFailed("provider")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	pending := domain.PendingOrder{
		CustomerName:    req.FullName,
		CustomerEmail:   req.Email,
		CustomerPhone:   req.Phone,
		ShippingAddress: req.ShippingAddress(),
		TotalAmount:     totals.Total,
		Items:           cart,
		CheckoutSession: checkout.ID,
		CreatedAt:       s.now().UTC(),
	}
	if err := clientstore.Save(ctx, s.store, session, clientstore.KeyPendingOrder, pending); err != nil {
		s.metrics.RecordCheckoutFailed("pending_order")
		return nil, fmt.Errorf("failed to save pending order: %w", err)
	}

	if err := s.store.Delete(ctx, session, clientstore.KeyCart); err != nil {
		// The pending order is saved; a stale cart is recoverable by the shopper.
		s.logger.Warn("failed to clear cart after checkout", "error", err)
	} else {
		publish(ctx, s.bus, s.logger, events.NewCartChanged(session, 0))
	}

	s.logger.Info("checkout session created",
		"checkout_session", checkout.ID,
		"items", cart.Count(),
		"total", pricing.Display(totals.Total),
	)

	return &CheckoutResult{SessionID: checkout.ID, URL: checkout.URL}, nil
}

// lineItems converts the cart to payment lines in cents. A non-zero
// shipping fee becomes its own line so the charged total matches the
// pending order.
func lineItems(c domain.Cart, shipping decimal.Decimal) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(c)+1)
	for _, it := range c {
		items = append(items, billing.LineItem{
			Name:            it.Product.Name,
			Description:     it.Product.Description,
			ImageURL:        it.Product.ImageURL,
			UnitAmountCents: pricing.MinorUnits(it.Product.Price),
			Quantity:        int64(it.Quantity),
		})
	}
	if shipping.IsPositive() {
		items = append(items, billing.LineItem{
			Name:            ShippingLineName,
			UnitAmountCents: pricing.MinorUnits(shipping),
			Quantity:        1,
		})
	}
	return items
}

// checkoutIdempotencyKey is stable for an identical resubmission, so a
// double click reuses the same payment session.
func checkoutIdempotencyKey(session string, req CheckoutRequest, c domain.Cart) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", session, req.Email, req.ShippingAddress())
	for _, it := range c {
		fmt.Fprintf(h, "|%s:%d:%s", it.Product.ID, it.Quantity, it.Product.Price.String())
	}
	return "checkout-" + hex.EncodeToString(h.Sum(nil))[:32]
}
