// Package payment adapts the Stripe API to the payment gateway used by
// checkout and amendments.
package payment

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// Enabled switches between Stripe and the in-process stub gateway
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// PublishableKey is handed to the client to confirm intents
	PublishableKey string `json:"publishable_key" mapstructure:"publishable_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`

	// Currency for entry payments
	Currency string `json:"currency" mapstructure:"currency"`
}

// DefaultStripeConfig returns a default configuration for development
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		IsTestMode: true,
		Currency:   "gbp",
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if c.IsTestMode {
		if !strings.HasPrefix(c.SecretKey, "sk_test") {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else if !strings.HasPrefix(c.SecretKey, "sk_live") {
		return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
