package payment

import (
	"context"
	"fmt"

	domain "github.com/showring/backend/internal/domain/payment"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"go.uber.org/zap"
)

// StripeGateway opens payment intents and refunds through Stripe.
// Every call carries the caller's idempotency key.
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway validates the config and initialises the client
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.InitStripeClient()
	return &StripeGateway{config: config, logger: logger}, nil
}

// CreateIntent opens a payment intent
func (g *StripeGateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.config.Currency
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe payment intent",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", req.Amount))

	return &domain.Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Refund returns part of a captured payment intent
func (g *StripeGateway) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentReference),
		Amount:        stripe.Int64(req.Amount),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	r, err := refund.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe refund",
			zap.String("payment_intent_id", req.PaymentReference),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create refund: %w", err)
	}

	g.logger.Info("Created Stripe refund",
		zap.String("refund_id", r.ID),
		zap.String("payment_intent_id", req.PaymentReference),
		zap.Int64("amount", req.Amount))

	return &domain.RefundResult{ID: r.ID}, nil
}

// CancelIntent cancels an intent that has not been paid
func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		g.logger.Error("Failed to cancel Stripe payment intent",
			zap.String("payment_intent_id", intentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel payment intent: %w", err)
	}

	g.logger.Info("Cancelled Stripe payment intent", zap.String("payment_intent_id", intentID))
	return nil
}

var _ domain.Gateway = (*StripeGateway)(nil)
