package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

// OrderStatus of a checkout
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "draft"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusFailed         OrderStatus = "failed"
)

// Order errors
var (
	ErrOrderNotFound     = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrOrderNotResumable = shared.NewDomainError("ORDER_NOT_RESUMABLE", "Order is not awaiting payment")
)

// OrderSundryItem is a sundry purchase on an order
type OrderSundryItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	SundryItemID uuid.UUID
	Quantity     int
	UnitPrice    int64
	Total        int64
}

// Order is one checkout
type Order struct {
	shared.BaseAggregateRoot
	ExhibitorID     uuid.UUID
	ShowID          uuid.UUID
	Status          OrderStatus
	TotalAmount     int64
	PaymentIntentID *string
	PaidAt          *time.Time
	Sundries        []OrderSundryItem
}

// NewOrder creates a draft order
func NewOrder(exhibitorID, showID uuid.UUID) *Order {
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExhibitorID:       exhibitorID,
		ShowID:            showID,
		Status:            OrderStatusDraft,
	}
}

// AddSundry records a sundry purchase and grows the total
func (o *Order) AddSundry(itemID uuid.UUID, quantity int, unitPrice int64) OrderSundryItem {
	line := OrderSundryItem{
		ID:           uuid.New(),
		OrderID:      o.ID,
		SundryItemID: itemID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Total:        unitPrice * int64(quantity),
	}
	o.Sundries = append(o.Sundries, line)
	o.TotalAmount += line.Total
	return line
}

// AddEntryFees grows the total by an entry quote
func (o *Order) AddEntryFees(amount int64) {
	o.TotalAmount += amount
}

// SubmitForPayment moves a draft order to pending_payment
func (o *Order) SubmitForPayment() error {
	if o.Status != OrderStatusDraft {
		return shared.ErrInvalidState.Withf("order is %s", o.Status)
	}
	o.Status = OrderStatusPendingPayment
	o.Touch(time.Now().UTC())
	return nil
}

// AttachIntent records the gateway intent
func (o *Order) AttachIntent(intentID string) {
	o.PaymentIntentID = &intentID
	o.Touch(time.Now().UTC())
}

// CanResume reports whether payment may be (re)opened
func (o *Order) CanResume() bool {
	return o.Status == OrderStatusPendingPayment || o.Status == OrderStatusFailed
}

// MarkPaid reports whether the status changed
func (o *Order) MarkPaid(now time.Time) bool {
	if o.Status == OrderStatusPaid {
		return false
	}
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.Touch(now)
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return true
}

// MarkFailed reports whether the status changed. A paid order never fails.
func (o *Order) MarkFailed(now time.Time) bool {
	if o.Status == OrderStatusFailed || o.Status == OrderStatusPaid {
		return false
	}
	o.Status = OrderStatusFailed
	o.Touch(now)
	return true
}

// Reopen returns a failed order to pending_payment before a retry
func (o *Order) Reopen() {
	if o.Status == OrderStatusFailed {
		o.Status = OrderStatusPendingPayment
		o.Touch(time.Now().UTC())
	}
}

// OwnedBy reports whether the exhibitor placed the order
func (o *Order) OwnedBy(exhibitorID uuid.UUID) bool {
	return o.ExhibitorID == exhibitorID
}

// OrderRepository persists orders with their sundry lines
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	// SetPaymentIntent records the intent id without touching status
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error
}
