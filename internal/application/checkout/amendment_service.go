package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/fee"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/shared/valueobject"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// AmendmentService replaces the classes of an existing entry and settles
// the fee difference with a top-up intent or a partial refund.
type AmendmentService struct {
	shows    show.Repository
	classes  show.ClassRepository
	entries  entry.EntryRepository
	payments payment.Repository
	scope    TransactionScope
	gateway  payment.Gateway
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// AmendmentServiceConfig holds the dependencies of AmendmentService
type AmendmentServiceConfig struct {
	Shows    show.Repository
	Classes  show.ClassRepository
	Entries  entry.EntryRepository
	Payments payment.Repository
	Scope    TransactionScope
	Gateway  payment.Gateway
	Currency string
	Logger   *zap.Logger
}

// NewAmendmentService creates an AmendmentService
func NewAmendmentService(cfg AmendmentServiceConfig) *AmendmentService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "gbp"
	}
	return &AmendmentService{
		shows:    cfg.Shows,
		classes:  cfg.Classes,
		entries:  cfg.Entries,
		payments: cfg.Payments,
		scope:    cfg.Scope,
		gateway:  cfg.Gateway,
		currency: currency,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Amend replaces the entry's classes. The fee difference is taken against
// what the exhibitor actually paid: uncaptured top-ups from earlier
// amendments are cancelled first. A refund is only attempted when a
// succeeded payment can cover it; otherwise nothing is written and
// REFUND_UNAVAILABLE is returned. Gateway failures leave the class change
// committed, the payment pending and its id in the result.
func (s *AmendmentService) Amend(ctx context.Context, cmd AmendCommand) (*AmendResult, error) {
	e, err := s.loadOwnedEntry(ctx, cmd.ActorID, cmd.EntryID)
	if err != nil {
		return nil, err
	}
	sh, err := loadShow(ctx, s.shows, e.ShowID)
	if err != nil {
		return nil, err
	}
	if err := sh.EnsureAcceptsEntries(); err != nil {
		return nil, err
	}
	if err := e.EnsureAmendable(); err != nil {
		return nil, err
	}
	if len(cmd.ClassIDs) == 0 {
		return nil, entry.ErrEmptyClassSelection.Withf("select at least one class")
	}

	scheduled, err := s.classes.FindByShow(ctx, sh.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show classes: %w", err)
	}
	idx := show.NewClassIndex(scheduled)
	if id, dup := firstRepeated(cmd.ClassIDs); dup {
		return nil, entry.ErrDuplicateEntryClass.Withf("class %s is selected more than once", className(idx, id))
	}
	classes, err := idx.Resolve(cmd.ClassIDs)
	if err != nil {
		return nil, err
	}

	var (
		result    *AmendResult
		locked    *entry.Entry
		pay       *payment.Payment
		source    *payment.Payment
		abandoned []string
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		locked, err = repos.Entries().FindByIDForUpdate(ctx, e.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return entry.ErrEntryNotFound.Withf("entry %s not found", e.ID)
			}
			return fmt.Errorf("failed to lock entry: %w", err)
		}
		if err := locked.EnsureAmendable(); err != nil {
			return err
		}
		quote := fee.Calculate(sh.FeeTiers(), show.FeeInputs(classes), locked.IsNFC)
		now := s.now()

		outstanding, err := repos.Payments().FindOutstandingAdjustments(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("failed to load outstanding top-ups: %w", err)
		}
		var unpaid int64
		cancelled := make([]uuid.UUID, 0, len(outstanding))
		for i := range outstanding {
			p := &outstanding[i]
			if !p.Cancel(now) {
				continue
			}
			if err := repos.Payments().Save(ctx, p); err != nil {
				return fmt.Errorf("failed to cancel top-up: %w", err)
			}
			unpaid += p.Amount
			cancelled = append(cancelled, p.ID)
			if p.GatewayReference != nil {
				abandoned = append(abandoned, *p.GatewayReference)
			}
		}

		oldFee, oldIDs := locked.TotalFee, locked.ClassIDs()
		delta := quote.Total - (oldFee - unpaid)

		if delta < 0 {
			source, err = reserveRefund(ctx, repos.Payments(), locked.OrderIDs(), -delta)
			if err != nil {
				return err
			}
		}

		replaced := locked.ReplaceClasses(quote)
		if err := repos.Entries().ReplaceClasses(ctx, locked.ID, replaced); err != nil {
			return fmt.Errorf("failed to replace entry classes: %w", err)
		}
		if err := repos.Entries().Save(ctx, locked); err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		switch {
		case delta > 0:
			pay = payment.NewPayment(locked.OrderID, &locked.ID, payment.TypeAdjustment, delta)
		case delta < 0:
			pay = payment.NewRefund(source, &locked.ID, -delta)
		}
		changes := map[string]any{
			"old_class_ids": uuidStrings(oldIDs),
			"new_class_ids": uuidStrings(locked.ClassIDs()),
			"old_fee":       oldFee,
			"new_fee":       quote.Total,
			"delta":         delta,
		}
		if len(cancelled) > 0 {
			changes["cancelled_payment_ids"] = uuidStrings(cancelled)
			changes["unpaid_top_ups"] = unpaid
		}
		if pay != nil {
			if err := repos.Payments().Create(ctx, pay); err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}
			changes["payment_id"] = pay.ID.String()
		}
		log := entry.NewAuditLog(locked.ID, cmd.ActorID, entry.AuditClassesAmended, changes, cmd.Reason)
		if err := repos.AuditLogs().Append(ctx, log); err != nil {
			return err
		}
		result = &AmendResult{
			EntryID:           locked.ID,
			OldFee:            oldFee,
			NewFee:            quote.Total,
			Delta:             delta,
			CancelledPayments: cancelled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Entry classes amended",
		zap.String("entry_id", result.EntryID.String()),
		zap.Int64("old_fee", result.OldFee),
		zap.Int64("new_fee", result.NewFee),
		zap.Int("cancelled_top_ups", len(result.CancelledPayments)))
	s.cancelIntents(ctx, abandoned)

	if pay == nil {
		return result, nil
	}
	result.PaymentID = &pay.ID

	if result.Delta > 0 {
		secret, err := s.openTopUp(ctx, locked, pay)
		if err != nil {
			return result, err
		}
		result.ClientSecret = secret
		return result, nil
	}

	if err := s.refund(ctx, source, pay); err != nil {
		return result, err
	}
	result.Refunded = pay.Amount
	return result, nil
}

// ResumePayment retries the gateway call of an amendment payment that was
// left pending or failed: a top-up gets its intent back, a refund is sent
// again under its original idempotency key.
func (s *AmendmentService) ResumePayment(ctx context.Context, actorID, paymentID uuid.UUID) (*PaymentResumeResult, error) {
	pay, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, payment.ErrPaymentNotFound.Withf("payment %s not found", paymentID)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if pay.EntryID == nil || pay.Type == payment.TypeInitial {
		return nil, payment.ErrNotResumable.Withf("order payments are resumed from the order")
	}
	e, err := s.loadOwnedEntry(ctx, actorID, *pay.EntryID)
	if err != nil {
		return nil, err
	}

	var source *payment.Payment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// serialises with Amend, which cancels top-ups under the same lock
		if _, err := repos.Entries().FindByIDForUpdate(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to lock entry: %w", err)
		}
		current, err := repos.Payments().FindByID(ctx, pay.ID)
		if err != nil {
			return fmt.Errorf("failed to reload payment: %w", err)
		}
		pay = current
		switch {
		case pay.IsOutstanding():
			if pay.Reopen(s.now()) {
				return repos.Payments().Save(ctx, pay)
			}
			return nil
		case pay.Type == payment.TypeRefund && pay.Status == payment.StatusPending && pay.RefundOf != nil:
			source, err = repos.Payments().FindByID(ctx, *pay.RefundOf)
			if err != nil {
				return fmt.Errorf("failed to load refunded payment: %w", err)
			}
			return nil
		default:
			return payment.ErrNotResumable.Withf("%s payment is %s", pay.Type, pay.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResumeResult{PaymentID: pay.ID, Type: string(pay.Type), Amount: pay.Amount}
	if pay.Type == payment.TypeAdjustment {
		secret, err := s.openTopUp(ctx, e, pay)
		if err != nil {
			return result, err
		}
		result.ClientSecret = secret
		return result, nil
	}
	if err := s.refund(ctx, source, pay); err != nil {
		return result, err
	}
	result.Refunded = pay.Amount
	return result, nil
}

func (s *AmendmentService) loadOwnedEntry(ctx context.Context, actorID, entryID uuid.UUID) (*entry.Entry, error) {
	e, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, entry.ErrEntryNotFound.Withf("entry %s not found", entryID)
		}
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if !e.OwnedBy(actorID) {
		return nil, shared.ErrForbidden.Withf("entry belongs to another exhibitor")
	}
	return e, nil
}

// reserveRefund claims amount on the oldest payment that can cover it
func reserveRefund(ctx context.Context, repo payment.Repository, orderIDs []uuid.UUID, amount int64) (*payment.Payment, error) {
	unavailable := payment.ErrRefundUnavailable.Withf("no succeeded payment can cover a refund of %s", valueobject.Pence(amount))
	source, err := repo.FindRefundable(ctx, orderIDs, amount)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, unavailable
		}
		return nil, fmt.Errorf("failed to find refundable payment: %w", err)
	}
	if err := repo.ReserveRefund(ctx, source.ID, amount); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, unavailable
		}
		return nil, fmt.Errorf("failed to reserve refund: %w", err)
	}
	return source, nil
}

// cancelIntents is best effort: a cancelled payment that is captured anyway
// is recorded as succeeded by the webhook and stays refundable.
func (s *AmendmentService) cancelIntents(ctx context.Context, intentIDs []string) {
	for _, id := range intentIDs {
		if err := s.gateway.CancelIntent(ctx, id); err != nil {
			s.logger.Warn("Failed to cancel superseded payment intent",
				zap.String("payment_intent_id", id),
				zap.Error(err))
		}
	}
}

func (s *AmendmentService) openTopUp(ctx context.Context, e *entry.Entry, pay *payment.Payment) (string, error) {
	intent, err := s.gateway.CreateIntent(ctx, payment.IntentRequest{
		Amount:         pay.Amount,
		Currency:       s.currency,
		IdempotencyKey: pay.IdempotencyKey(),
		Description:    "Entry class change",
		Metadata: map[string]string{
			"order_id":     pay.OrderID.String(),
			"entry_id":     e.ID.String(),
			"payment_id":   pay.ID.String(),
			"payment_type": string(pay.Type),
		},
	})
	if err != nil {
		s.logger.Error("Payment gateway unavailable for adjustment",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return "", payment.ErrGatewayUnavailable.Withf("payment provider unavailable, the %s top-up is pending", valueobject.Pence(pay.Amount))
	}
	if err := s.payments.SetGatewayReference(ctx, pay.ID, intent.ID); err != nil {
		return "", fmt.Errorf("failed to record payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

func (s *AmendmentService) refund(ctx context.Context, source, pay *payment.Payment) error {
	res, err := s.gateway.Refund(ctx, payment.RefundRequest{
		PaymentReference: *source.GatewayReference,
		Amount:           pay.Amount,
		IdempotencyKey:   pay.IdempotencyKey(),
	})
	if err != nil {
		s.logger.Error("Payment gateway unavailable for refund",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return payment.ErrGatewayUnavailable.Withf("payment provider unavailable, the %s refund is pending", valueobject.Pence(pay.Amount))
	}

	pay.AttachReference(res.ID)
	pay.MarkSucceeded(s.now())
	if err := s.payments.Save(ctx, pay); err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}
	return nil
}
