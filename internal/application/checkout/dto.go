package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/entry"
)

// JuniorHandlerRequest carries the handler for a junior handling entry
type JuniorHandlerRequest struct {
	HandlerName string
	DateOfBirth time.Time
	KCNumber    string
}

// EntryRequest is one logical entry in the cart
type EntryRequest struct {
	EntryType     entry.Type
	DogID         *uuid.UUID
	ClassIDs      []uuid.UUID
	IsNFC         bool
	JuniorHandler *JuniorHandlerRequest
}

// SundryRequest buys Quantity of a sundry item
type SundryRequest struct {
	SundryItemID uuid.UUID
	Quantity     int
}

// CheckoutCommand converts a cart into an order
type CheckoutCommand struct {
	ExhibitorID uuid.UUID
	ShowID      uuid.UUID
	Entries     []EntryRequest
	Sundries    []SundryRequest
}

// EntryResult describes one entry written by a checkout
type EntryResult struct {
	EntryID  uuid.UUID  `json:"entry_id"`
	DogID    *uuid.UUID `json:"dog_id,omitempty"`
	Extended bool       `json:"extended"`
	Fee      int64      `json:"fee"`
	Classes  int        `json:"classes"`
}

// CheckoutResult is returned after the order is written. On a gateway
// failure it is returned alongside the error so the caller can resume.
type CheckoutResult struct {
	OrderID         uuid.UUID         `json:"order_id"`
	Status          entry.OrderStatus `json:"status"`
	TotalAmount     int64             `json:"total_amount"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	ClientSecret    string            `json:"client_secret,omitempty"`
	Entries         []EntryResult     `json:"entries"`
}

// ResumeResult is the reopened payment for an order
type ResumeResult struct {
	OrderID         uuid.UUID `json:"order_id"`
	Amount          int64     `json:"amount"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ClientSecret    string    `json:"client_secret"`
}

// AmendCommand replaces an entry's classes
type AmendCommand struct {
	ActorID  uuid.UUID
	EntryID  uuid.UUID
	ClassIDs []uuid.UUID
	Reason   string
}

// AmendResult reports the fee change and any payment opened for it
type AmendResult struct {
	EntryID      uuid.UUID  `json:"entry_id"`
	OldFee       int64      `json:"old_fee"`
	NewFee       int64      `json:"new_fee"`
	Delta        int64      `json:"delta"`
	PaymentID    *uuid.UUID `json:"payment_id,omitempty"`
	ClientSecret string     `json:"client_secret,omitempty"`
	Refunded     int64      `json:"refunded,omitempty"`
	// CancelledPayments are earlier top-ups this amendment superseded
	CancelledPayments []uuid.UUID `json:"cancelled_payment_ids,omitempty"`
}

// PaymentResumeResult is a retried amendment payment
type PaymentResumeResult struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	Type         string    `json:"payment_type"`
	Amount       int64     `json:"amount"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Refunded     int64     `json:"refunded,omitempty"`
}
