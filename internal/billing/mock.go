package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for testing.
// Simulates hosted checkout without calling Stripe API.
type MockProvider struct {
	// CreateCheckoutSessionFunc allows customizing session creation behavior
	CreateCheckoutSessionFunc func(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error)

	// ParseWebhookFunc allows customizing webhook verification behavior
	ParseWebhookFunc func(payload []byte, signature string) (*WebhookEvent, error)

	mu sync.Mutex

	// Sessions stores created sessions for retrieval
	Sessions map[string]*CheckoutSession

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Sessions: make(map[string]*CheckoutSession),
		CallLog:  []string{},
	}
}

// CreateCheckoutSession creates a mock session with an unpaid status.
func (m *MockProvider) CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateCheckoutSession(%d items, %s)", len(params.Items), params.Customer.Email))
	m.mu.Unlock()

	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, params)
	}
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	var total int64
	for _, it := range params.Items {
		total += it.UnitAmountCents * it.Quantity
	}

	id := "cs_test_" + uuid.New().String()
	sess := &CheckoutSession{
		ID:            id,
		URL:           "https://checkout.stripe.test/pay/" + id,
		Status:        "open",
		PaymentStatus: PaymentStatusUnpaid,
		CustomerEmail: params.Customer.Email,
		AmountTotal:   total,
		Currency:      "eur",
		Metadata:      params.Metadata,
	}

	m.mu.Lock()
	m.Sessions[id] = sess
	m.mu.Unlock()
	return sess, nil
}

// GetCheckoutSession returns a stored session.
func (m *MockProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetCheckoutSession(%s)", sessionID))

	sess, ok := m.Sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ParseWebhook accepts any payload unless ParseWebhookFunc is set.
func (m *MockProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, "ParseWebhook")
	m.mu.Unlock()

	if m.ParseWebhookFunc != nil {
		return m.ParseWebhookFunc(payload, signature)
	}
	return &WebhookEvent{ID: "evt_mock", Type: "mock.event"}, nil
}

// SimulatePaid marks a stored session as completed and paid.
func (m *MockProvider) SimulatePaid(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.Sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Status = "complete"
	sess.PaymentStatus = PaymentStatusPaid
	return nil
}

var _ Provider = (*MockProvider)(nil)
var _ Provider = (*StripeProvider)(nil)
