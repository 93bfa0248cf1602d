package dog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

// Sex of a dog. The empty value means the sex is not recorded.
type Sex string

const (
	SexDog   Sex = "dog"
	SexBitch Sex = "bitch"
	SexUnset Sex = ""
)

// IsValid checks if the sex value is recognised
func (s Sex) IsValid() bool {
	switch s {
	case SexDog, SexBitch, SexUnset:
		return true
	}
	return false
}

// BreedGroup is a KC breed group (Gundog, Hound, Terrier, ...)
type BreedGroup struct {
	ID        uuid.UUID
	Name      string
	SortOrder int
}

// Breed belongs to at most one group
type Breed struct {
	ID      uuid.UUID
	Name    string
	GroupID *uuid.UUID
	Group   *BreedGroup
}

// Dog is a registered dog owned by one exhibitor
type Dog struct {
	shared.BaseAggregateRoot
	OwnerID        uuid.UUID
	RegisteredName string
	BreedID        *uuid.UUID
	Breed          *Breed
	Sex            Sex
	DateOfBirth    *time.Time
	DeletedAt      *time.Time
}

// Errors
var (
	ErrDogNotFound = shared.NewDomainError("DOG_NOT_FOUND", "Dog not found")
	ErrDogNotOwned = shared.NewDomainError("DOG_NOT_OWNED", "Dog is not owned by the requesting exhibitor")
)

// NewDog creates a dog record
func NewDog(ownerID uuid.UUID, registeredName string, breedID *uuid.UUID, sex Sex, dob *time.Time) (*Dog, error) {
	if registeredName == "" {
		return nil, shared.ErrInvalidInput.Withf("registered name is required")
	}
	if !sex.IsValid() {
		return nil, shared.ErrInvalidInput.Withf("invalid sex %q", sex)
	}
	return &Dog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		RegisteredName:    registeredName,
		BreedID:           breedID,
		Sex:               sex,
		DateOfBirth:       dob,
	}, nil
}

// IsDeleted reports a soft-deleted dog
func (d *Dog) IsDeleted() bool {
	return d.DeletedAt != nil
}

// OwnedBy reports whether the exhibitor owns the dog
func (d *Dog) OwnedBy(exhibitorID uuid.UUID) bool {
	return d.OwnerID == exhibitorID
}

// GroupName returns the breed group name or "" when unknown
func (d *Dog) GroupName() string {
	if d.Breed == nil || d.Breed.Group == nil {
		return ""
	}
	return d.Breed.Group.Name
}

// Repository loads dogs with breed and group
type Repository interface {
	// FindByID includes soft-deleted dogs so callers can tell "deleted"
	// from "never existed".
	FindByID(ctx context.Context, id uuid.UUID) (*Dog, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Dog, error)
	Save(ctx context.Context, d *Dog) error
}
