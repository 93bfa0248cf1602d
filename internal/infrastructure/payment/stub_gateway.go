package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	domain "github.com/showring/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// StubGateway stands in for Stripe in development. It honours
// idempotency keys the same way: a repeated key returns the first result.
type StubGateway struct {
	mu      sync.Mutex
	intents map[string]*domain.Intent
	refunds map[string]*domain.RefundResult
	// cancelled intent ids
	cancelled map[string]bool
	logger    *zap.Logger
}

// NewStubGateway creates a StubGateway
func NewStubGateway(logger *zap.Logger) *StubGateway {
	return &StubGateway{
		intents:   make(map[string]*domain.Intent),
		refunds:   make(map[string]*domain.RefundResult),
		cancelled: make(map[string]bool),
		logger:    logger,
	}
}

// CreateIntent returns a deterministic intent per idempotency key
func (g *StubGateway) CreateIntent(_ context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if intent, ok := g.intents[req.IdempotencyKey]; ok {
		return intent, nil
	}
	id := "pi_stub_" + shortHash(req.IdempotencyKey)
	intent := &domain.Intent{ID: id, ClientSecret: id + "_secret"}
	g.intents[req.IdempotencyKey] = intent

	g.logger.Info("Stub payment intent created",
		zap.String("payment_intent_id", id),
		zap.Int64("amount", req.Amount))
	return intent, nil
}

// Refund returns a deterministic refund per idempotency key
func (g *StubGateway) Refund(_ context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.refunds[req.IdempotencyKey]; ok {
		return r, nil
	}
	r := &domain.RefundResult{ID: "re_stub_" + shortHash(req.IdempotencyKey)}
	g.refunds[req.IdempotencyKey] = r

	g.logger.Info("Stub refund created",
		zap.String("refund_id", r.ID),
		zap.String("payment_intent_id", req.PaymentReference),
		zap.Int64("amount", req.Amount))
	return r, nil
}

// CancelIntent marks the intent cancelled. Cancelling twice is a no-op.
func (g *StubGateway) CancelIntent(_ context.Context, intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.cancelled[intentID] {
		g.cancelled[intentID] = true
		g.logger.Info("Stub payment intent cancelled", zap.String("payment_intent_id", intentID))
	}
	return nil
}

// IsCancelled reports whether CancelIntent was called for intentID
func (g *StubGateway) IsCancelled(intentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled[intentID]
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:12])
}

var _ domain.Gateway = (*StubGateway)(nil)
