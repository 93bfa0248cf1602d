package catalogue

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
)

// Listing is one numbered entry in the printed catalogue
type Listing struct {
	EntryID     uuid.UUID `json:"entry_id"`
	Number      string    `json:"catalogue_number"`
	DogName     string    `json:"dog_name"`
	BreedName   string    `json:"breed_name"`
	GroupName   string    `json:"group_name,omitempty"`
	Sex         dog.Sex   `json:"sex,omitempty"`
	ExhibitorID uuid.UUID `json:"exhibitor_id"`
}

// Repository reads sequencing input and writes catalogue numbers
type Repository interface {
	// LockShow serialises numbering runs for one show until the
	// transaction ends
	LockShow(ctx context.Context, showID uuid.UUID) error
	// FindItems returns the show's confirmed, undeleted entries
	FindItems(ctx context.Context, showID uuid.UUID) ([]Item, error)
	ClearNumbers(ctx context.Context, showID uuid.UUID) error
	SetNumbers(ctx context.Context, assignments []Assignment) error
	// ListNumbered returns numbered entries in catalogue order
	ListNumbered(ctx context.Context, showID uuid.UUID) ([]Listing, error)
}
