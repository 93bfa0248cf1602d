// Package payment records gateway charges and refunds against orders.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

// Type of payment
type Type string

const (
	TypeInitial    Type = "initial"
	TypeAdjustment Type = "adjustment"
	TypeRefund     Type = "refund"
)

// Status of a payment
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusCancelled is a top-up superseded by a later amendment
	StatusCancelled Status = "cancelled"
)

// Errors
var (
	ErrPaymentNotFound    = shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
	ErrGatewayUnavailable = shared.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", "Payment provider is unavailable, please retry")
	ErrRefundUnavailable  = shared.NewDomainError("REFUND_UNAVAILABLE", "No succeeded payment is available to refund against")
	ErrNotResumable       = shared.NewDomainError("PAYMENT_NOT_RESUMABLE", "Payment cannot be resumed")
)

// Payment is one charge or refund at the gateway
type Payment struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	EntryID          *uuid.UUID
	Type             Type
	Status           Status
	Amount           int64
	RefundedAmount   int64
	GatewayReference *string
	// RefundOf links a refund to the payment it returns money from
	RefundOf  *uuid.UUID
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment creates a pending payment
func NewPayment(orderID uuid.UUID, entryID *uuid.UUID, t Type, amount int64) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		EntryID:   entryID,
		Type:      t,
		Status:    StatusPending,
		Amount:    amount,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewRefund creates a pending refund against source
func NewRefund(source *Payment, entryID *uuid.UUID, amount int64) *Payment {
	p := NewPayment(source.OrderID, entryID, TypeRefund, amount)
	p.RefundOf = &source.ID
	return p
}

// IdempotencyKey is the gateway key for this payment
func (p *Payment) IdempotencyKey() string {
	return "payment:" + p.ID.String()
}

// Refundable reports how much can still be refunded
func (p *Payment) Refundable() int64 {
	if p.Status != StatusSucceeded || p.Type == TypeRefund {
		return 0
	}
	return p.Amount - p.RefundedAmount
}

// AttachReference records the gateway id
func (p *Payment) AttachReference(ref string) {
	p.GatewayReference = &ref
	p.UpdatedAt = time.Now().UTC()
}

// MarkSucceeded reports whether the status changed
func (p *Payment) MarkSucceeded(now time.Time) bool {
	if p.Status == StatusSucceeded {
		return false
	}
	p.Status = StatusSucceeded
	p.UpdatedAt = now
	return true
}

// MarkFailed reports whether the status changed. A succeeded payment
// never fails.
func (p *Payment) MarkFailed(now time.Time) bool {
	if p.Status != StatusPending {
		return false
	}
	p.Status = StatusFailed
	p.UpdatedAt = now
	return true
}

// IsOutstanding reports whether p is a top-up that was charged to the
// entry fee but not captured
func (p *Payment) IsOutstanding() bool {
	return p.Type == TypeAdjustment && (p.Status == StatusPending || p.Status == StatusFailed)
}

// Cancel retires an uncaptured payment. It reports whether the status
// changed.
func (p *Payment) Cancel(now time.Time) bool {
	if p.Status != StatusPending && p.Status != StatusFailed {
		return false
	}
	p.Status = StatusCancelled
	p.UpdatedAt = now
	return true
}

// Reopen returns a failed payment to pending before a retry
func (p *Payment) Reopen(now time.Time) bool {
	if p.Status != StatusFailed {
		return false
	}
	p.Status = StatusPending
	p.UpdatedAt = now
	return true
}

// Repository persists payments
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByGatewayReference(ctx context.Context, ref string) (*Payment, error)
	// FindInitialByOrder returns the order's initial payment
	FindInitialByOrder(ctx context.Context, orderID uuid.UUID) (*Payment, error)
	// FindRefundable returns the oldest succeeded initial or adjustment
	// payment on the orders with at least minAmount left to refund, or
	// shared.ErrNotFound.
	FindRefundable(ctx context.Context, orderIDs []uuid.UUID, minAmount int64) (*Payment, error)
	// FindOutstandingAdjustments returns the entry's pending or failed
	// top-ups, oldest first
	FindOutstandingAdjustments(ctx context.Context, entryID uuid.UUID) ([]Payment, error)
	// ReserveRefund grows RefundedAmount by amount only while the payment
	// still has that much left, else shared.ErrNotFound
	ReserveRefund(ctx context.Context, id uuid.UUID, amount int64) error
	Create(ctx context.Context, p *Payment) error
	Save(ctx context.Context, p *Payment) error
	// SetGatewayReference records the gateway id without touching status
	SetGatewayReference(ctx context.Context, id uuid.UUID, ref string) error
}
