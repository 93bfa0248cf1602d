package dto

import (
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	"github.com/showring/backend/internal/domain/shared/valueobject"
)

// CheckoutView adds formatted money to a checkout result
type CheckoutView struct {
	*checkoutapp.CheckoutResult
	Total valueobject.Money `json:"total"`
}

// NewCheckoutView wraps r. A nil result yields nil.
func NewCheckoutView(r *checkoutapp.CheckoutResult) *CheckoutView {
	if r == nil {
		return nil
	}
	return &CheckoutView{CheckoutResult: r, Total: valueobject.Pence(r.TotalAmount)}
}

// AmendView adds formatted money to an amendment result
type AmendView struct {
	*checkoutapp.AmendResult
	OldTotal valueobject.Money `json:"old_total"`
	NewTotal valueobject.Money `json:"new_total"`
	Change   valueobject.Money `json:"change"`
}

// NewAmendView wraps r
func NewAmendView(r *checkoutapp.AmendResult) *AmendView {
	return &AmendView{
		AmendResult: r,
		OldTotal:    valueobject.Pence(r.OldFee),
		NewTotal:    valueobject.Pence(r.NewFee),
		Change:      valueobject.Pence(r.Delta),
	}
}

// AutoDetectResponse answers the checklist auto-detect query
type AutoDetectResponse struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Completed  bool   `json:"completed"`
}
