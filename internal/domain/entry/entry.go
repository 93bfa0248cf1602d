package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/fee"
	"github.com/showring/backend/internal/domain/shared"
)

// Type is the immutable kind of an entry
type Type string

const (
	TypeStandard      Type = "standard"
	TypeJuniorHandler Type = "junior_handler"
)

// IsValid checks the entry type
func (t Type) IsValid() bool {
	return t == TypeStandard || t == TypeJuniorHandler
}

// Status of an entry
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusWithdrawn   Status = "withdrawn"
	StatusTransferred Status = "transferred"
	StatusCancelled   Status = "cancelled"
)

// InactiveStatuses are excluded from the one-active-entry-per-dog rule
var InactiveStatuses = []Status{StatusWithdrawn, StatusCancelled, StatusTransferred}

// IsActive reports whether the status still holds the dog's place
func (s Status) IsActive() bool {
	for _, inactive := range InactiveStatuses {
		if s == inactive {
			return false
		}
	}
	return true
}

// Errors
var (
	ErrEntryNotFound                = shared.NewDomainError("ENTRY_NOT_FOUND", "Entry not found")
	ErrDuplicateEntryClass          = shared.NewDomainError("DUPLICATE_ENTRY_CLASS", "Dog is already entered in this class")
	ErrDuplicateEntry               = shared.NewDomainError("DUPLICATE_ENTRY", "Dog already has an active entry in this show")
	ErrEmptyClassSelection          = shared.NewDomainError("EMPTY_CLASS_SELECTION", "At least one class must be selected")
	ErrJuniorHandlerDetailsRequired = shared.NewDomainError("JUNIOR_HANDLER_DETAILS_REQUIRED", "Junior handler details are required")
	ErrDogRequired                  = shared.NewDomainError("DOG_REQUIRED", "A dog is required for this entry type")
	ErrEntryNotAmendable            = shared.NewDomainError("ENTRY_NOT_AMENDABLE", "Entry can no longer be amended")
)

// EntryClass joins an entry to a show class with a frozen fee
type EntryClass struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	ShowClassID uuid.UUID
	// OrderID is the order that paid for this class
	OrderID   uuid.UUID
	Fee       int64
	CreatedAt time.Time
}

// JuniorHandlerDetails describes the handler for a junior handling entry
type JuniorHandlerDetails struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	HandlerName string
	DateOfBirth time.Time
	KCNumber    string
}

// Entry is one dog (or junior handler) in one show
type Entry struct {
	shared.BaseAggregateRoot
	ShowID          uuid.UUID
	ExhibitorID     uuid.UUID
	DogID           *uuid.UUID
	OrderID         uuid.UUID
	Type            Type
	Status          Status
	IsNFC           bool
	TotalFee        int64
	CatalogueNumber *string
	EntryDate       time.Time
	DeletedAt       *time.Time
	Classes         []EntryClass
	JuniorHandler   *JuniorHandlerDetails
}

// NewEntry creates a pending entry priced by quote
func NewEntry(showID, exhibitorID, orderID uuid.UUID, dogID *uuid.UUID, t Type, isNFC bool, quote fee.Quote) *Entry {
	e := &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ShowID:            showID,
		ExhibitorID:       exhibitorID,
		DogID:             dogID,
		OrderID:           orderID,
		Type:              t,
		Status:            StatusPending,
		IsNFC:             isNFC,
	}
	e.EntryDate = e.CreatedAt
	e.AddClasses(orderID, quote)
	return e
}

// AddClasses appends priced classes paid by orderID
func (e *Entry) AddClasses(orderID uuid.UUID, quote fee.Quote) []EntryClass {
	added := make([]EntryClass, 0, len(quote.Snapshots))
	now := time.Now().UTC()
	for _, s := range quote.Snapshots {
		added = append(added, EntryClass{
			ID:          uuid.New(),
			EntryID:     e.ID,
			ShowClassID: s.ShowClassID,
			OrderID:     orderID,
			Fee:         s.Fee,
			CreatedAt:   now,
		})
	}
	e.Classes = append(e.Classes, added...)
	e.TotalFee += quote.Total
	e.Touch(now)
	return added
}

// ReplaceClasses swaps the class set for a fresh quote. Classes kept from
// the old set keep their paying order; new ones are tagged with the
// entry's original order.
func (e *Entry) ReplaceClasses(quote fee.Quote) []EntryClass {
	paidBy := make(map[uuid.UUID]uuid.UUID, len(e.Classes))
	for _, c := range e.Classes {
		paidBy[c.ShowClassID] = c.OrderID
	}
	now := time.Now().UTC()
	classes := make([]EntryClass, 0, len(quote.Snapshots))
	for _, s := range quote.Snapshots {
		orderID, ok := paidBy[s.ShowClassID]
		if !ok {
			orderID = e.OrderID
		}
		classes = append(classes, EntryClass{
			ID:          uuid.New(),
			EntryID:     e.ID,
			ShowClassID: s.ShowClassID,
			OrderID:     orderID,
			Fee:         s.Fee,
			CreatedAt:   now,
		})
	}
	e.Classes = classes
	e.TotalFee = quote.Total
	e.Touch(now)
	return classes
}

// ClassIDs returns the show class ids in insertion order
func (e *Entry) ClassIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(e.Classes))
	for i, c := range e.Classes {
		ids[i] = c.ShowClassID
	}
	return ids
}

// ClassFees returns the current classes as fee inputs in insertion order.
// fees maps show class ids to their schedule fee.
func (e *Entry) ClassFees(fees map[uuid.UUID]int64) []fee.ClassFee {
	out := make([]fee.ClassFee, len(e.Classes))
	for i, c := range e.Classes {
		out[i] = fee.ClassFee{ShowClassID: c.ShowClassID, EntryFee: fees[c.ShowClassID]}
	}
	return out
}

// FirstOverlap returns the first requested class already on the entry
func (e *Entry) FirstOverlap(classIDs []uuid.UUID) (uuid.UUID, bool) {
	held := make(map[uuid.UUID]struct{}, len(e.Classes))
	for _, c := range e.Classes {
		held[c.ShowClassID] = struct{}{}
	}
	for _, id := range classIDs {
		if _, ok := held[id]; ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// OrderIDs returns every order that paid for this entry
func (e *Entry) OrderIDs() []uuid.UUID {
	seen := map[uuid.UUID]struct{}{e.OrderID: {}}
	ids := []uuid.UUID{e.OrderID}
	for _, c := range e.Classes {
		if _, ok := seen[c.OrderID]; !ok {
			seen[c.OrderID] = struct{}{}
			ids = append(ids, c.OrderID)
		}
	}
	return ids
}

// IsActive reports whether the entry holds the dog's place in the show
func (e *Entry) IsActive() bool {
	return e.Status.IsActive()
}

// OwnedBy reports whether the exhibitor made the entry
func (e *Entry) OwnedBy(exhibitorID uuid.UUID) bool {
	return e.ExhibitorID == exhibitorID
}

// EnsureAmendable allows class changes only for pending or confirmed entries
func (e *Entry) EnsureAmendable() error {
	if e.Status != StatusPending && e.Status != StatusConfirmed {
		return ErrEntryNotAmendable.Withf("entry is %s", e.Status)
	}
	return nil
}

// Confirm moves a pending entry to confirmed. It reports whether the
// status changed.
func (e *Entry) Confirm(now time.Time) bool {
	if e.Status != StatusPending {
		return false
	}
	e.Status = StatusConfirmed
	e.Touch(now)
	return true
}

// EntryRepository persists entries with their classes
type EntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// FindByIDForUpdate is FindByID holding a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)
	// FindActiveByDog returns shared.ErrNotFound when the dog has no active
	// entry in the show, whatever its entry type
	FindActiveByDog(ctx context.Context, showID, dogID uuid.UUID) (*Entry, error)
	// FindActiveByDogForUpdate is FindActiveByDog holding a row lock
	FindActiveByDogForUpdate(ctx context.Context, showID, dogID uuid.UUID) (*Entry, error)
	// FindPendingByOrder returns pending entries holding a class paid by the order
	FindPendingByOrder(ctx context.Context, orderID uuid.UUID) ([]Entry, error)
	Create(ctx context.Context, e *Entry) error
	AddClasses(ctx context.Context, classes []EntryClass) error
	ReplaceClasses(ctx context.Context, entryID uuid.UUID, classes []EntryClass) error
	// Save updates the entry row, not its classes
	Save(ctx context.Context, e *Entry) error
}
