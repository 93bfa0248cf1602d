package show

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

// SundryItem is an optional extra sold with entries (catalogue, car pass)
type SundryItem struct {
	ID          uuid.UUID
	ShowID      uuid.UUID
	Name        string
	Price       int64
	MaxPerOrder *int
	Enabled     bool
}

// Errors
var (
	ErrSundryNotFound    = shared.NewDomainError("SUNDRY_NOT_FOUND", "Sundry item not found")
	ErrSundryDisabled    = shared.NewDomainError("SUNDRY_DISABLED", "Sundry item is not available")
	ErrSundryCapExceeded = shared.NewDomainError("SUNDRY_CAP_EXCEEDED", "Sundry item quantity exceeds the per-order limit")
	ErrInvalidQuantity   = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
)

// CheckPurchase validates a quantity of this item for an order at showID
func (i *SundryItem) CheckPurchase(showID uuid.UUID, quantity int) error {
	if i.ShowID != showID {
		return ErrSundryNotFound.Withf("sundry item %s does not belong to this show", i.ID)
	}
	if !i.Enabled {
		return ErrSundryDisabled.Withf("%s is not available", i.Name)
	}
	if quantity < 1 {
		return ErrInvalidQuantity.Withf("quantity for %s must be at least 1", i.Name)
	}
	if i.MaxPerOrder != nil && quantity > *i.MaxPerOrder {
		return ErrSundryCapExceeded.Withf("%s is limited to %d per order", i.Name, *i.MaxPerOrder)
	}
	return nil
}

// SundryRepository loads sundry items
type SundryRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SundryItem, error)
	Save(ctx context.Context, item *SundryItem) error
}
