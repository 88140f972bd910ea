package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/stripe/stripe-go/v83"
	checkoutsession "github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/webhook"
)

// StripeProvider implements Provider using Stripe Checkout.
type StripeProvider struct {
	config StripeConfig
}

// NewStripeProvider configures the Stripe SDK backend and returns a provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	stripe.Key = cfg.APIKey
	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
		HTTPClient: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: &telemetry.HTTPTransport{Transport: http.DefaultTransport},
		},
	}))

	return &StripeProvider{config: cfg}, nil
}

// CreateCheckoutSession creates a payment-mode Checkout session.
func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error) {
	sp, err := buildCheckoutParams(s.config, params)
	if err != nil {
		return nil, err
	}
	sp.Context = ctx

	sess, err := checkoutsession.New(sp)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return fromStripeSession(sess), nil
}

// GetCheckoutSession retrieves a Checkout session.
func (s *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return fromStripeSession(sess), nil
}

// ParseWebhook verifies a Stripe-Signature header and decodes checkout
// session events. Other event types are returned with a nil Session.
func (s *StripeProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseWebhook(payload, signature, s.config.WebhookSecret)
}

func parseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	out.Session = fromStripeSession(&sess)
	return out, nil
}

func buildCheckoutParams(cfg StripeConfig, params CreateCheckoutSessionParams) (*stripe.CheckoutSessionParams, error) {
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.Items))
	for _, item := range params.Items {
		if item.UnitAmountCents <= 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrAmountTooSmall, item.Name)
		}

		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		// Stripe rejects empty descriptions and relative image URLs
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if strings.HasPrefix(item.ImageURL, "https://") || strings.HasPrefix(item.ImageURL, "http://") {
			product.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitAmountCents),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sp := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(cfg.AllowedCountries),
		},
	}
	if params.Customer.Email != "" {
		sp.CustomerEmail = stripe.String(params.Customer.Email)
	}

	sp.AddMetadata("customer_name", params.Customer.Name)
	sp.AddMetadata("customer_phone", params.Customer.Phone)
	sp.AddMetadata("shipping_address", params.Customer.Address)
	for k, v := range params.Metadata {
		sp.AddMetadata(k, v)
	}

	if params.IdempotencyKey != "" {
		sp.SetIdempotencyKey(params.IdempotencyKey)
	}

	return sp, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		CustomerEmail: sess.CustomerEmail,
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}
	if out.CustomerEmail == "" && sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	return out
}
