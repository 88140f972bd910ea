package billing

import (
	"context"
)

// Provider defines the interface for the hosted checkout boundary.
type Provider interface {
	// CreateCheckoutSession starts a hosted payment page and returns the
	// URL the shopper is redirected to.
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error)

	// GetCheckoutSession retrieves a session by id.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// LineItem is one priced line on the hosted payment page.
type LineItem struct {
	Name        string
	Description string
	// ImageURL must be absolute to be shown; relative URLs are dropped.
	ImageURL string
	// UnitAmountCents is the unit price in minor units.
	UnitAmountCents int64
	Quantity        int64
}

// CustomerInfo prefills the payment page and is echoed into metadata.
type CustomerInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CreateCheckoutSessionParams contains parameters for creating a checkout session.
type CreateCheckoutSessionParams struct {
	Items    []LineItem
	Customer CustomerInfo

	// SuccessURL may contain the {CHECKOUT_SESSION_ID} placeholder.
	SuccessURL string
	CancelURL  string

	// Metadata for filtering and reporting (client session, item count)
	Metadata map[string]string

	// IdempotencyKey prevents duplicate sessions for one submission.
	IdempotencyKey string
}

// CheckoutSession represents a hosted checkout session.
type CheckoutSession struct {
	ID            string
	URL           string
	Status        string
	PaymentStatus string
	CustomerEmail string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

// IsPaid reports whether the provider considers the session paid.
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// WebhookEvent is the provider-neutral subset of a webhook delivery.
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)
