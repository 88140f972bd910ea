package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

func testConfig() StripeConfig {
	cfg := StripeConfig{APIKey: "sk_test_123", WebhookSecret: "whsec_test"}
	return cfg.withDefaults()
}

func TestStripeConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StripeConfig
		wantErr bool
	}{
		{"valid", StripeConfig{APIKey: "sk_test_1", WebhookSecret: "whsec_1"}, false},
		{"missing key", StripeConfig{WebhookSecret: "whsec_1"}, true},
		{"missing secret", StripeConfig{APIKey: "sk_test_1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.True(t, (&StripeConfig{APIKey: "sk_test_abc"}).IsTestMode())
	assert.False(t, (&StripeConfig{APIKey: "sk_live_abc"}).IsTestMode())

	d := testConfig()
	assert.Equal(t, "eur", d.Currency)
	assert.Len(t, d.AllowedCountries, 18)
	assert.Contains(t, d.AllowedCountries, "LU")
}

func TestBuildCheckoutParams(t *testing.T) {
	params := CreateCheckoutSessionParams{
		Items: []LineItem{
			{Name: "RTX 4070", Description: "12GB", ImageURL: "https://cdn.example.com/4070.png", UnitAmountCents: 59999, Quantity: 1},
			{Name: "Cabo SATA", ImageURL: "/uploads/sata.png", UnitAmountCents: 499, Quantity: 2},
		},
		Customer: CustomerInfo{
			Name:    "Ana Silva",
			Email:   "ana@example.com",
			Phone:   "+352 123",
			Address: "Rue 1, Luxembourg, 1234, Luxembourg",
		},
		SuccessURL:     "http://shop/sucesso?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      "http://shop/carrinho",
		Metadata:       map[string]string{"client_session": "abc"},
		IdempotencyKey: "abc-1",
	}

	sp, err := buildCheckoutParams(testConfig(), params)
	require.NoError(t, err)

	assert.Equal(t, "payment", *sp.Mode)
	assert.Equal(t, "required", *sp.BillingAddressCollection)
	assert.True(t, *sp.PhoneNumberCollection.Enabled)
	assert.Len(t, sp.ShippingAddressCollection.AllowedCountries, 18)
	assert.Equal(t, "ana@example.com", *sp.CustomerEmail)
	assert.Equal(t, params.SuccessURL, *sp.SuccessURL)
	assert.Equal(t, "abc-1", *sp.IdempotencyKey)
	assert.Equal(t, "abc", sp.Metadata["client_session"])
	assert.Equal(t, "Ana Silva", sp.Metadata["customer_name"])

	require.Len(t, sp.LineItems, 2)
	first := sp.LineItems[0]
	assert.Equal(t, "eur", *first.PriceData.Currency)
	assert.Equal(t, int64(59999), *first.PriceData.UnitAmount)
	assert.Equal(t, "12GB", *first.PriceData.ProductData.Description)
	assert.Len(t, first.PriceData.ProductData.Images, 1)

	second := sp.LineItems[1]
	assert.Nil(t, second.PriceData.ProductData.Description)
	assert.Empty(t, second.PriceData.ProductData.Images)
	assert.Equal(t, int64(2), *second.Quantity)
}

func TestBuildCheckoutParams_Rejects(t *testing.T) {
	_, err := buildCheckoutParams(testConfig(), CreateCheckoutSessionParams{})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = buildCheckoutParams(testConfig(), CreateCheckoutSessionParams{
		Items: []LineItem{{Name: "free", UnitAmountCents: 0, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrAmountTooSmall)
}

func signed(t *testing.T, payload, secret string) string {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Header
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	payload := `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"status": "complete",
			"payment_status": "paid",
			"amount_total": 10997,
			"currency": "eur",
			"customer_details": {"email": "ana@example.com"}
		}}
	}`

	ev, err := parseWebhook([]byte(payload), signed(t, payload, "whsec_test"), "whsec_test")
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionCompleted, ev.Type)
	require.NotNil(t, ev.Session)
	assert.Equal(t, "cs_test_1", ev.Session.ID)
	assert.True(t, ev.Session.IsPaid())
	assert.Equal(t, int64(10997), ev.Session.AmountTotal)
	assert.Equal(t, "ana@example.com", ev.Session.CustomerEmail)
}

func TestParseWebhook_OtherEventHasNoSession(t *testing.T) {
	payload := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`

	ev, err := parseWebhook([]byte(payload), signed(t, payload, "whsec_test"), "whsec_test")
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", ev.Type)
	assert.Nil(t, ev.Session)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	payload := `{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{}}}`

	_, err := parseWebhook([]byte(payload), signed(t, payload, "whsec_other"), "whsec_test")
	assert.ErrorIs(t, err, ErrInvalidWebhookSignature)

	_, err = parseWebhook([]byte(payload), "", "whsec_test")
	assert.ErrorIs(t, err, ErrInvalidWebhookSignature)
}

func TestWrapStripeError(t *testing.T) {
	assert.NoError(t, wrapStripeError(nil))

	plain := wrapStripeError(errors.New("dial tcp: refused"))
	assert.ErrorContains(t, plain, "refused")

	missing := wrapStripeError(&stripe.Error{HTTPStatusCode: 404, Code: stripe.ErrorCodeResourceMissing, Msg: "No such checkout.session"})
	assert.ErrorIs(t, missing, ErrSessionNotFound)

	declined := wrapStripeError(fmt.Errorf("call: %w", &stripe.Error{HTTPStatusCode: 402, Code: "card_declined", Msg: "declined", RequestID: "req_1"}))
	var se *StripeError
	require.ErrorAs(t, declined, &se)
	assert.True(t, se.IsDeclined())
	assert.False(t, se.IsTemporary())
	assert.Equal(t, "req_1", se.RequestID)
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	_, err := m.CreateCheckoutSession(ctx, CreateCheckoutSessionParams{})
	assert.ErrorIs(t, err, ErrNoItems)

	sess, err := m.CreateCheckoutSession(ctx, CreateCheckoutSessionParams{
		Items:    []LineItem{{Name: "SSD", UnitAmountCents: 4999, Quantity: 2}},
		Customer: CustomerInfo{Email: "ana@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9998), sess.AmountTotal)
	assert.False(t, sess.IsPaid())

	require.NoError(t, m.SimulatePaid(sess.ID))
	got, err := m.GetCheckoutSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid())

	_, err = m.GetCheckoutSession(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Len(t, m.CallLog, 4)
}
