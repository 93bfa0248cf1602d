package checkout

import (
	"context"
	"fmt"

	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/shared/valueobject"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// OrderPaidHandler emails the exhibitor when an order is paid
type OrderPaidHandler struct {
	shows    show.Repository
	contacts shared.ContactDirectory
	notifier shared.Notifier
	logger   *zap.Logger
}

// NewOrderPaidHandler creates a new handler for order paid events
func NewOrderPaidHandler(shows show.Repository, contacts shared.ContactDirectory, notifier shared.Notifier, logger *zap.Logger) *OrderPaidHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPaidHandler{shows: shows, contacts: contacts, notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPaidHandler) EventTypes() []string {
	return []string{entry.EventTypeOrderPaid}
}

// Handle sends the entry confirmation email
func (h *OrderPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*entry.OrderPaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", entry.EventTypeOrderPaid, event.EventType())
	}

	email, err := h.contacts.EmailFor(ctx, paid.ExhibitorID)
	if err != nil {
		return fmt.Errorf("failed to resolve exhibitor email: %w", err)
	}
	sh, err := h.shows.FindByID(ctx, paid.ShowID)
	if err != nil {
		return fmt.Errorf("failed to load show: %w", err)
	}

	h.logger.Info("Sending entry confirmation",
		zap.String("order_id", paid.OrderID.String()),
		zap.String("show_id", paid.ShowID.String()))
	return h.notifier.Send(ctx, shared.TemplateEntryConfirmation, email, map[string]any{
		"order_id":  paid.OrderID.String(),
		"show_name": sh.Name,
		"total":     valueobject.Pence(paid.TotalAmount).String(),
	})
}
