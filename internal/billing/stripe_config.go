package billing

import (
	"errors"
	"strings"
)

// StripeConfig contains configuration for Stripe provider.
type StripeConfig struct {
	// APIKey is the Stripe secret key (sk_test_... or sk_live_...)
	APIKey string

	// WebhookSecret is the webhook signing secret (whsec_...)
	WebhookSecret string

	// Currency is the ISO 4217 code charged on every session. Default: eur
	Currency string

	// AllowedCountries restricts shipping address collection.
	AllowedCountries []string

	// MaxRetries is the number of SDK network retries. Zero disables them.
	MaxRetries int64

	// TimeoutSeconds is the HTTP timeout for Stripe API calls in seconds
	// Default: 30
	TimeoutSeconds int
}

// DefaultAllowedCountries are the shipping destinations the shop serves.
var DefaultAllowedCountries = []string{
	"LU", "FR", "BE", "NL", "DE", "IT", "GB", "ES", "PT",
	"AT", "DK", "FI", "NO", "IE", "PL", "CZ", "GR", "SE",
}

// Validate checks that required configuration is present.
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidAPIKey
	}
	if c.WebhookSecret == "" {
		return errors.New("stripe: webhook secret is required")
	}
	return nil
}

// IsTestMode returns true if using test mode API keys.
func (c *StripeConfig) IsTestMode() bool {
	return strings.HasPrefix(c.APIKey, "sk_test_")
}

func (c *StripeConfig) withDefaults() StripeConfig {
	out := *c
	if out.Currency == "" {
		out.Currency = "eur"
	}
	if len(out.AllowedCountries) == 0 {
		out.AllowedCountries = DefaultAllowedCountries
	}
	if out.TimeoutSeconds <= 0 {
		out.TimeoutSeconds = 30
	}
	return out
}
