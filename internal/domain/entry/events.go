package entry

import (
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

const (
	// AggregateTypeOrder is the aggregate type for orders
	AggregateTypeOrder = "Order"

	EventTypeOrderPaid = "OrderPaid"
)

// OrderPaidEvent is raised once an order's initial payment succeeds
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	ExhibitorID uuid.UUID `json:"exhibitor_id"`
	ShowID      uuid.UUID `json:"show_id"`
	TotalAmount int64     `json:"total_amount"`
}

// NewOrderPaidEvent creates the event from a paid order
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ExhibitorID:     o.ExhibitorID,
		ShowID:          o.ShowID,
		TotalAmount:     o.TotalAmount,
	}
}
