package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentOutcome identifies the payment a gateway event settles.
// PaymentID comes from intent metadata and covers events that arrive
// before the intent id was recorded.
type PaymentOutcome struct {
	IntentID  string
	PaymentID *uuid.UUID
}

// HandlePaymentSucceeded marks the payment succeeded. For an initial
// payment the order becomes paid and its pending entries confirmed.
// Replays are no-ops.
func (s *Service) HandlePaymentSucceeded(ctx context.Context, out PaymentOutcome) error {
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := findPayment(ctx, repos.Payments(), out)
		if err != nil {
			return err
		}
		now := s.now()
		if p.Status == payment.StatusCancelled {
			s.logger.Warn("Cancelled top-up was captured, it stays refundable",
				zap.String("payment_id", p.ID.String()),
				zap.String("payment_intent_id", out.IntentID))
		}
		if !p.MarkSucceeded(now) {
			s.logger.Info("Payment already succeeded",
				zap.String("payment_id", p.ID.String()),
				zap.String("payment_intent_id", out.IntentID))
			return nil
		}
		if p.GatewayReference == nil && out.IntentID != "" {
			p.AttachReference(out.IntentID)
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if p.Type != payment.TypeInitial {
			return nil
		}

		order, err := repos.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if err := settleOrder(ctx, repos, order, now); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		events = order.PullDomainEvents()
		s.logger.Info("Order paid",
			zap.String("order_id", order.ID.String()),
			zap.Int64("total", order.TotalAmount))
		return nil
	})
	if err != nil {
		return err
	}
	publish(ctx, s.events, s.logger, events...)
	return nil
}

// HandlePaymentFailed marks the payment failed, and its order too when it
// is the initial payment. The order stays resumable.
func (s *Service) HandlePaymentFailed(ctx context.Context, out PaymentOutcome) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := findPayment(ctx, repos.Payments(), out)
		if err != nil {
			return err
		}
		now := s.now()
		if !p.MarkFailed(now) {
			return nil
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if p.Type != payment.TypeInitial {
			return nil
		}

		order, err := repos.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if !order.MarkFailed(now) {
			return nil
		}
		s.logger.Info("Order payment failed", zap.String("order_id", order.ID.String()))
		return repos.Orders().Save(ctx, order)
	})
}

func findPayment(ctx context.Context, repo payment.Repository, out PaymentOutcome) (*payment.Payment, error) {
	if out.IntentID != "" {
		p, err := repo.FindByGatewayReference(ctx, out.IntentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to load payment: %w", err)
		}
	}
	if out.PaymentID != nil {
		p, err := repo.FindByID(ctx, *out.PaymentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to load payment: %w", err)
		}
	}
	return nil, payment.ErrPaymentNotFound.Withf("no payment for intent %s", out.IntentID)
}
