package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	infrapayment "github.com/showring/backend/internal/infrastructure/payment"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Stripe event types handled here
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
)

// PaymentOutcomeHandler applies gateway outcomes to orders
type PaymentOutcomeHandler interface {
	HandlePaymentSucceeded(ctx context.Context, out PaymentOutcome) error
	HandlePaymentFailed(ctx context.Context, out PaymentOutcome) error
}

// StripeWebhookService verifies Stripe webhooks and forwards payment
// intent outcomes. Events are deduplicated by id.
type StripeWebhookService struct {
	config      *infrapayment.StripeConfig
	handler     PaymentOutcomeHandler
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config      *infrapayment.StripeConfig
	Handler     PaymentOutcomeHandler
	Idempotency shared.IdempotencyStore
	TTL         time.Duration
	Logger      *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &StripeWebhookService{
		config:      cfg.Config,
		handler:     cfg.Handler,
		idempotency: cfg.Idempotency,
		ttl:         ttl,
		logger:      logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID          string `json:"event_id"`
	EventType        string `json:"event_type"`
	Processed        bool   `json:"processed"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	Message          string `json:"message,omitempty"`
}

// ProcessWebhook verifies the signature and applies the event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	key := "stripe:event:" + event.ID
	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to check webhook idempotency: %w", err)
		}
		if !fresh {
			s.logger.Info("Webhook event already processed", zap.String("event_id", event.ID))
			result.AlreadyProcessed = true
			return result, nil
		}
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case EventPaymentIntentSucceeded:
		err = s.handleIntent(ctx, event, s.handler.HandlePaymentSucceeded)
	case EventPaymentIntentFailed:
		err = s.handleIntent(ctx, event, s.handler.HandlePaymentFailed)
	default:
		s.logger.Debug("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		if s.idempotency != nil {
			if ferr := s.idempotency.Forget(ctx, key); ferr != nil {
				s.logger.Warn("Failed to release webhook idempotency key", zap.Error(ferr))
			}
		}
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}
	return result, nil
}

func (s *StripeWebhookService) handleIntent(ctx context.Context, event stripe.Event, apply func(context.Context, PaymentOutcome) error) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	out := PaymentOutcome{IntentID: intent.ID}
	if raw, ok := intent.Metadata["payment_id"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			out.PaymentID = &id
		}
	}

	err := apply(ctx, out)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		// Intents created outside this service are acknowledged so Stripe
		// stops retrying.
		s.logger.Warn("No payment for webhook intent", zap.String("payment_intent_id", intent.ID))
		return nil
	}
	return err
}
