package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
)

// ErrInvalidPlacement rejects placements outside 1..7
var ErrInvalidPlacement = shared.NewDomainError("INVALID_PLACEMENT", "Placement must be between 1 and 7")

// Result is the outcome of one entry class
type Result struct {
	ID           uuid.UUID
	EntryClassID uuid.UUID
	Placement    *int
	SpecialAward string
	RecordedAt   time.Time
}

// NewResult validates the placement
func NewResult(entryClassID uuid.UUID, placement *int, specialAward string) (*Result, error) {
	if placement != nil && (*placement < 1 || *placement > 7) {
		return nil, ErrInvalidPlacement.Withf("placement %d is outside 1..7", *placement)
	}
	return &Result{
		ID:           uuid.New(),
		EntryClassID: entryClassID,
		Placement:    placement,
		SpecialAward: specialAward,
		RecordedAt:   time.Now().UTC(),
	}, nil
}

// Placing is a dog's result joined to the show it was earned at
type Placing struct {
	ShowID    uuid.UUID
	ShowType  show.Type
	ShowDate  time.Time
	Placement int
}

// ResultRepository stores results. Save fails with shared.ErrAlreadyExists
// when the entry class already has a result.
type ResultRepository interface {
	Save(ctx context.Context, r *Result) error
	// FindPlacingsByDog returns placings from the dog's confirmed entries
	FindPlacingsByDog(ctx context.Context, dogID uuid.UUID) ([]Placing, error)
}
