// Package checkout turns an exhibitor's cart into an order with entries,
// opens the gateway payment, applies payment outcomes and amends classes
// on existing entries.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/fee"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// Service runs checkouts and applies payment outcomes to orders
type Service struct {
	shows    show.Repository
	classes  show.ClassRepository
	sundries show.SundryRepository
	dogs     dog.Repository
	entries  entry.EntryRepository
	orders   entry.OrderRepository
	payments payment.Repository
	scope    TransactionScope
	gateway  payment.Gateway
	events   shared.EventPublisher
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// ServiceConfig holds the dependencies of Service
type ServiceConfig struct {
	Shows          show.Repository
	Classes        show.ClassRepository
	Sundries       show.SundryRepository
	Dogs           dog.Repository
	Entries        entry.EntryRepository
	Orders         entry.OrderRepository
	Payments       payment.Repository
	Scope          TransactionScope
	Gateway        payment.Gateway
	EventPublisher shared.EventPublisher
	Currency       string
	Logger         *zap.Logger
}

// NewService creates a checkout Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "gbp"
	}
	return &Service{
		shows:    cfg.Shows,
		classes:  cfg.Classes,
		sundries: cfg.Sundries,
		dogs:     cfg.Dogs,
		entries:  cfg.Entries,
		orders:   cfg.Orders,
		payments: cfg.Payments,
		scope:    cfg.Scope,
		gateway:  cfg.Gateway,
		events:   cfg.EventPublisher,
		currency: currency,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// entryPlan is one entry to write: either a new entry or an extension of
// the dog's active entry.
type entryPlan struct {
	req      EntryRequest
	dog      *dog.Dog
	classIDs []uuid.UUID
	classes  []show.ShowClass
	// mixedTypes is set when the same dog was sent under two entry types
	mixedTypes bool
}

type sundryLine struct {
	item     show.SundryItem
	quantity int
}

// Checkout validates the cart, writes the order in one transaction and
// then opens the gateway intent. Preconditions are checked in order: show,
// entry shape, dogs, duplicate classes, class membership, sundries.
func (s *Service) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	sh, err := loadShow(ctx, s.shows, cmd.ShowID)
	if err != nil {
		return nil, err
	}
	if err := sh.EnsureAcceptsEntries(); err != nil {
		return nil, err
	}
	if len(cmd.Entries) == 0 && len(cmd.Sundries) == 0 {
		return nil, shared.ErrInvalidInput.Withf("order has no entries or sundries")
	}
	for i, req := range cmd.Entries {
		if err := validateEntryShape(i, req); err != nil {
			return nil, err
		}
	}

	dogs, err := s.loadDogs(ctx, cmd.ExhibitorID, cmd.Entries)
	if err != nil {
		return nil, err
	}
	classes, err := s.classes.FindByShow(ctx, sh.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show classes: %w", err)
	}
	idx := show.NewClassIndex(classes)

	plans, err := planEntries(cmd.Entries, dogs, idx)
	if err != nil {
		return nil, err
	}
	if err := s.checkExisting(ctx, sh.ID, plans, idx); err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.classes, err = idx.Resolve(p.classIDs); err != nil {
			return nil, err
		}
	}
	lines, err := s.resolveSundries(ctx, sh.ID, cmd.Sundries)
	if err != nil {
		return nil, err
	}

	order := entry.NewOrder(cmd.ExhibitorID, sh.ID)
	for _, l := range lines {
		order.AddSundry(l.item.ID, l.quantity, l.item.Price)
	}

	var (
		initial *payment.Payment
		results []EntryResult
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		results = make([]EntryResult, 0, len(plans))
		if err := repos.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, p := range plans {
			res, err := s.writeEntry(ctx, repos, sh, order, p, idx)
			if err != nil {
				return err
			}
			order.AddEntryFees(res.Fee)
			results = append(results, res)
		}
		if err := order.SubmitForPayment(); err != nil {
			return err
		}

		initial = payment.NewPayment(order.ID, nil, payment.TypeInitial, order.TotalAmount)
		if order.TotalAmount == 0 {
			now := s.now()
			initial.MarkSucceeded(now)
			if err := settleOrder(ctx, repos, order, now); err != nil {
				return err
			}
		}
		if err := repos.Payments().Create(ctx, initial); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checkout order created",
		zap.String("order_id", order.ID.String()),
		zap.String("show_id", sh.ID.String()),
		zap.Int("entries", len(results)),
		zap.Int64("total", order.TotalAmount))

	publish(ctx, s.events, s.logger, order.PullDomainEvents()...)

	result := &CheckoutResult{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Entries:     results,
	}
	if order.TotalAmount == 0 {
		return result, nil
	}

	intent, err := s.openIntent(ctx, order, initial)
	if err != nil {
		return result, err
	}
	result.PaymentIntentID = intent.ID
	result.ClientSecret = intent.ClientSecret
	return result, nil
}

// ResumePayment reopens the gateway intent for an unpaid order. The
// idempotency key is the order id, so a retry never charges twice.
func (s *Service) ResumePayment(ctx context.Context, exhibitorID, orderID uuid.UUID) (*ResumeResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, entry.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !order.OwnedBy(exhibitorID) {
		return nil, shared.ErrForbidden.Withf("order belongs to another exhibitor")
	}
	if !order.CanResume() {
		return nil, entry.ErrOrderNotResumable.Withf("order is %s", order.Status)
	}
	initial, err := s.payments.FindInitialByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order payment: %w", err)
	}

	if order.Status == entry.OrderStatusFailed {
		order.Reopen()
		initial.Reopen(s.now())
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := repos.Orders().Save(ctx, order); err != nil {
				return err
			}
			return repos.Payments().Save(ctx, initial)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to reopen order: %w", err)
		}
	}

	intent, err := s.openIntent(ctx, order, initial)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment resumed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", intent.ID))

	return &ResumeResult{
		OrderID:         order.ID,
		Amount:          order.TotalAmount,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

func (s *Service) openIntent(ctx context.Context, order *entry.Order, p *payment.Payment) (*payment.Intent, error) {
	intent, err := s.gateway.CreateIntent(ctx, payment.IntentRequest{
		Amount:         order.TotalAmount,
		Currency:       s.currency,
		IdempotencyKey: OrderIdempotencyKey(order.ID),
		Description:    "Show entries",
		Metadata: map[string]string{
			"order_id":     order.ID.String(),
			"payment_id":   p.ID.String(),
			"payment_type": string(p.Type),
		},
	})
	if err != nil {
		s.logger.Error("Payment gateway unavailable, order left pending",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, payment.ErrGatewayUnavailable.Withf("payment provider unavailable for order %s, retry payment to continue", order.ID)
	}

	order.AttachIntent(intent.ID)
	p.AttachReference(intent.ID)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Orders().SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
			return err
		}
		return repos.Payments().SetGatewayReference(ctx, p.ID, intent.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}
	return intent, nil
}

// OrderIdempotencyKey is the gateway key for an order's initial intent
func OrderIdempotencyKey(orderID uuid.UUID) string {
	return "order:" + orderID.String()
}

func (s *Service) writeEntry(ctx context.Context, repos TransactionalRepositories, sh *show.Show, order *entry.Order, p *entryPlan, idx show.ClassIndex) (EntryResult, error) {
	if p.dog != nil {
		existing, err := repos.Entries().FindActiveByDogForUpdate(ctx, sh.ID, p.dog.ID)
		switch {
		case err == nil:
			return s.extendEntry(ctx, repos, sh, existing, order, p, idx)
		case !errors.Is(err, shared.ErrNotFound):
			return EntryResult{}, fmt.Errorf("failed to lock active entry: %w", err)
		}
	}

	var dogID *uuid.UUID
	if p.dog != nil {
		dogID = &p.dog.ID
	}
	quote := fee.Calculate(sh.FeeTiers(), show.FeeInputs(p.classes), p.req.IsNFC)
	e := entry.NewEntry(sh.ID, order.ExhibitorID, order.ID, dogID, p.req.EntryType, p.req.IsNFC, quote)
	if jh := p.req.JuniorHandler; jh != nil && p.req.EntryType == entry.TypeJuniorHandler {
		e.JuniorHandler = &entry.JuniorHandlerDetails{
			ID:          uuid.New(),
			EntryID:     e.ID,
			HandlerName: strings.TrimSpace(jh.HandlerName),
			DateOfBirth: jh.DateOfBirth,
			KCNumber:    jh.KCNumber,
		}
	}
	if err := repos.Entries().Create(ctx, e); err != nil {
		if errors.Is(err, entry.ErrDuplicateEntry) && p.dog != nil {
			return EntryResult{}, entry.ErrDuplicateEntry.Withf("%s already has an active entry in this show", p.dog.RegisteredName)
		}
		return EntryResult{}, err
	}

	log := entry.NewAuditLog(e.ID, order.ExhibitorID, entry.AuditCreated, map[string]any{
		"order_id":  order.ID.String(),
		"class_ids": uuidStrings(e.ClassIDs()),
		"total_fee": e.TotalFee,
		"is_nfc":    e.IsNFC,
		"fee_model": string(fee.ModelFor(sh.FeeTiers(), e.IsNFC)),
	}, "")
	if err := repos.AuditLogs().Append(ctx, log); err != nil {
		return EntryResult{}, fmt.Errorf("failed to write audit log: %w", err)
	}

	return EntryResult{EntryID: e.ID, DogID: e.DogID, Fee: quote.Total, Classes: len(e.Classes)}, nil
}

// extendEntry adds disjoint classes to the dog's active entry. The new
// classes are priced after the existing ones and paid by this order.
func (s *Service) extendEntry(ctx context.Context, repos TransactionalRepositories, sh *show.Show, existing *entry.Entry, order *entry.Order, p *entryPlan, idx show.ClassIndex) (EntryResult, error) {
	if err := checkAgainstActive(existing, p, idx); err != nil {
		return EntryResult{}, err
	}

	quote := fee.CalculateAppended(sh.FeeTiers(), existing.ClassFees(scheduleFees(idx)), show.FeeInputs(p.classes), existing.IsNFC)
	added := existing.AddClasses(order.ID, quote)
	if err := repos.Entries().AddClasses(ctx, added); err != nil {
		return EntryResult{}, fmt.Errorf("failed to add entry classes: %w", err)
	}
	if err := repos.Entries().Save(ctx, existing); err != nil {
		return EntryResult{}, fmt.Errorf("failed to update entry: %w", err)
	}

	addedIDs := make([]uuid.UUID, len(added))
	for i, c := range added {
		addedIDs[i] = c.ShowClassID
	}
	log := entry.NewAuditLog(existing.ID, order.ExhibitorID, entry.AuditClassesAdded, map[string]any{
		"order_id":        order.ID.String(),
		"added_class_ids": uuidStrings(addedIDs),
		"fee_added":       quote.Total,
		"total_fee":       existing.TotalFee,
	}, "")
	if err := repos.AuditLogs().Append(ctx, log); err != nil {
		return EntryResult{}, fmt.Errorf("failed to write audit log: %w", err)
	}

	return EntryResult{EntryID: existing.ID, DogID: existing.DogID, Extended: true, Fee: quote.Total, Classes: len(added)}, nil
}

// settleOrder marks the order paid and confirms the pending entries it
// paid for. A replay on a paid order changes nothing.
func settleOrder(ctx context.Context, repos TransactionalRepositories, order *entry.Order, now time.Time) error {
	if !order.MarkPaid(now) {
		return nil
	}
	pending, err := repos.Entries().FindPendingByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order entries: %w", err)
	}
	for i := range pending {
		e := &pending[i]
		if !e.Confirm(now) {
			continue
		}
		if err := repos.Entries().Save(ctx, e); err != nil {
			return fmt.Errorf("failed to confirm entry: %w", err)
		}
		log := entry.NewAuditLog(e.ID, order.ExhibitorID, entry.AuditConfirmed, map[string]any{
			"order_id": order.ID.String(),
			"status":   string(entry.StatusConfirmed),
		}, "payment received")
		if err := repos.AuditLogs().Append(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
	}
	return nil
}

func validateEntryShape(i int, req EntryRequest) error {
	n := i + 1
	if !req.EntryType.IsValid() {
		return shared.ErrInvalidInput.Withf("entry %d: unknown entry type %q", n, req.EntryType)
	}
	if len(req.ClassIDs) == 0 {
		return entry.ErrEmptyClassSelection.Withf("entry %d has no classes selected", n)
	}
	switch req.EntryType {
	case entry.TypeStandard:
		if req.DogID == nil {
			return entry.ErrDogRequired.Withf("entry %d needs a dog", n)
		}
	case entry.TypeJuniorHandler:
		jh := req.JuniorHandler
		if jh == nil || strings.TrimSpace(jh.HandlerName) == "" || jh.DateOfBirth.IsZero() {
			return entry.ErrJuniorHandlerDetailsRequired.Withf("entry %d needs the handler's name and date of birth", n)
		}
	}
	return nil
}

func (s *Service) loadDogs(ctx context.Context, exhibitorID uuid.UUID, reqs []EntryRequest) (map[uuid.UUID]*dog.Dog, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	for _, r := range reqs {
		if r.DogID == nil {
			continue
		}
		if _, ok := seen[*r.DogID]; !ok {
			seen[*r.DogID] = struct{}{}
			ids = append(ids, *r.DogID)
		}
	}
	out := make(map[uuid.UUID]*dog.Dog, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := s.dogs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load dogs: %w", err)
	}
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		d, ok := out[id]
		if !ok || d.IsDeleted() {
			return nil, dog.ErrDogNotFound.Withf("dog %s not found", id)
		}
		if !d.OwnedBy(exhibitorID) {
			return nil, dog.ErrDogNotOwned.Withf("%s is not owned by you", d.RegisteredName)
		}
	}
	return out, nil
}

// planEntries merges logical entries for the same dog. A dog holds one
// active entry per show whatever the entry type.
func planEntries(reqs []EntryRequest, dogs map[uuid.UUID]*dog.Dog, idx show.ClassIndex) ([]*entryPlan, error) {
	plans := make([]*entryPlan, 0, len(reqs))
	byDog := make(map[uuid.UUID]*entryPlan, len(reqs))
	for _, req := range reqs {
		var d *dog.Dog
		if req.DogID != nil {
			d = dogs[*req.DogID]
		}
		if d != nil {
			if p, ok := byDog[d.ID]; ok {
				p.classIDs = append(p.classIDs, req.ClassIDs...)
				p.mixedTypes = p.mixedTypes || p.req.EntryType != req.EntryType
				continue
			}
			p := &entryPlan{req: req, dog: d, classIDs: append([]uuid.UUID(nil), req.ClassIDs...)}
			byDog[d.ID] = p
			plans = append(plans, p)
			continue
		}
		plans = append(plans, &entryPlan{req: req, classIDs: append([]uuid.UUID(nil), req.ClassIDs...)})
	}

	for _, p := range plans {
		if id, dup := firstRepeated(p.classIDs); dup {
			if p.dog != nil {
				return nil, duplicateClassError(p.dog, id, idx)
			}
			return nil, entry.ErrDuplicateEntryClass.Withf("class %s is selected more than once", className(idx, id))
		}
		if p.mixedTypes {
			return nil, entry.ErrDuplicateEntry.Withf("%s can only be entered once in this show", p.dog.RegisteredName)
		}
	}
	return plans, nil
}

// checkAgainstActive rejects a plan that repeats a class of the dog's
// active entry or would change that entry's type.
func checkAgainstActive(existing *entry.Entry, p *entryPlan, idx show.ClassIndex) error {
	if id, overlap := existing.FirstOverlap(p.classIDs); overlap {
		return duplicateClassError(p.dog, id, idx)
	}
	if existing.Type != p.req.EntryType {
		return entry.ErrDuplicateEntry.Withf("%s already has an active %s entry in this show", p.dog.RegisteredName, existing.Type)
	}
	return nil
}

// checkExisting rejects classes a dog already holds. The row lock and
// unique index inside the transaction remain the authoritative guard.
func (s *Service) checkExisting(ctx context.Context, showID uuid.UUID, plans []*entryPlan, idx show.ClassIndex) error {
	for _, p := range plans {
		if p.dog == nil {
			continue
		}
		existing, err := s.entries.FindActiveByDog(ctx, showID, p.dog.ID)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check existing entries: %w", err)
		}
		if err := checkAgainstActive(existing, p, idx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) resolveSundries(ctx context.Context, showID uuid.UUID, reqs []SundryRequest) ([]sundryLine, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(reqs))
	totals := make(map[uuid.UUID]int, len(reqs))
	for _, r := range reqs {
		if _, ok := totals[r.SundryItemID]; !ok {
			ids = append(ids, r.SundryItemID)
		}
		totals[r.SundryItemID] += r.Quantity
	}

	items, err := s.sundries.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load sundry items: %w", err)
	}
	byID := make(map[uuid.UUID]show.SundryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for _, r := range reqs {
		it, ok := byID[r.SundryItemID]
		if !ok {
			return nil, show.ErrSundryNotFound.Withf("sundry item %s not found", r.SundryItemID)
		}
		if err := it.CheckPurchase(showID, r.Quantity); err != nil {
			return nil, err
		}
	}

	lines := make([]sundryLine, 0, len(ids))
	for _, id := range ids {
		it := byID[id]
		if err := it.CheckPurchase(showID, totals[id]); err != nil {
			return nil, err
		}
		lines = append(lines, sundryLine{item: it, quantity: totals[id]})
	}
	return lines, nil
}

func duplicateClassError(d *dog.Dog, classID uuid.UUID, idx show.ClassIndex) error {
	return entry.ErrDuplicateEntryClass.Withf("%s is already entered in class %s", d.RegisteredName, className(idx, classID))
}

func className(idx show.ClassIndex, id uuid.UUID) string {
	if c, ok := idx[id]; ok && c.Name() != "" {
		return c.Name()
	}
	return id.String()
}

func scheduleFees(idx show.ClassIndex) map[uuid.UUID]int64 {
	fees := make(map[uuid.UUID]int64, len(idx))
	for id, c := range idx {
		fees[id] = c.EntryFee
	}
	return fees
}

func firstRepeated(ids []uuid.UUID) (uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return uuid.Nil, false
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func loadShow(ctx context.Context, shows show.Repository, id uuid.UUID) (*show.Show, error) {
	sh, err := shows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, show.ErrShowNotFound.Withf("show %s not found", id)
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	return sh, nil
}

func publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
