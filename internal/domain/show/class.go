package show

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/fee"
)

// ClassType categorises a class definition
type ClassType string

const (
	ClassTypeAge           ClassType = "age"
	ClassTypeAchievement   ClassType = "achievement"
	ClassTypeSpecial       ClassType = "special"
	ClassTypeJuniorHandler ClassType = "junior_handler"
)

// ClassDefinition is canonical class metadata shared across shows
type ClassDefinition struct {
	ID           uuid.UUID
	Name         string
	Type         ClassType
	MinAgeMonths *int
	MaxAgeMonths *int
	MaxWins      *int
	SortOrder    int
}

// ShowClass is a class scheduled at a show. A nil BreedID opens the class
// to every breed at the show; a nil Sex opens it to both sexes.
type ShowClass struct {
	ID                uuid.UUID
	ShowID            uuid.UUID
	BreedID           *uuid.UUID
	ClassDefinitionID uuid.UUID
	Definition        *ClassDefinition
	Sex               *dog.Sex
	EntryFee          int64
	ClassNumber       int
}

// FeeInput converts the class for fee calculation
func (c ShowClass) FeeInput() fee.ClassFee {
	return fee.ClassFee{ShowClassID: c.ID, EntryFee: c.EntryFee}
}

// Name returns the definition name when loaded
func (c ShowClass) Name() string {
	if c.Definition == nil {
		return ""
	}
	return c.Definition.Name
}

// ClassRepository loads classes for a show
type ClassRepository interface {
	FindByShow(ctx context.Context, showID uuid.UUID) ([]ShowClass, error)
	Save(ctx context.Context, c *ShowClass) error
}

// ClassIndex resolves requested class ids against a show's schedule
type ClassIndex map[uuid.UUID]ShowClass

// NewClassIndex indexes the classes of one show
func NewClassIndex(classes []ShowClass) ClassIndex {
	idx := make(ClassIndex, len(classes))
	for _, c := range classes {
		idx[c.ID] = c
	}
	return idx
}

// Resolve returns the classes in request order, failing with
// ErrInvalidClass naming the first id not on the schedule.
func (idx ClassIndex) Resolve(ids []uuid.UUID) ([]ShowClass, error) {
	out := make([]ShowClass, 0, len(ids))
	for _, id := range ids {
		c, ok := idx[id]
		if !ok {
			return nil, ErrInvalidClass.Withf("class %s does not belong to this show", id)
		}
		out = append(out, c)
	}
	return out, nil
}

// FeeInputs converts resolved classes for fee calculation
func FeeInputs(classes []ShowClass) []fee.ClassFee {
	out := make([]fee.ClassFee, len(classes))
	for i, c := range classes {
		out[i] = c.FeeInput()
	}
	return out
}
