package show

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/fee"
	"github.com/showring/backend/internal/domain/shared"
)

// Status is the lifecycle of a show
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPublished     Status = "published"
	StatusEntriesOpen   Status = "entries_open"
	StatusEntriesClosed Status = "entries_closed"
	StatusInProgress    Status = "in_progress"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// Type is the KC licence level of a show
type Type string

const (
	TypeCompanion    Type = "companion"
	TypeLimited      Type = "limited"
	TypeOpen         Type = "open"
	TypePremierOpen  Type = "premier_open"
	TypeChampionship Type = "championship"
)

// Show is a single event run by an organisation
type Show struct {
	shared.BaseAggregateRoot
	OrganisationID     uuid.UUID
	Name               string
	Type               Type
	Status             Status
	StartDate          time.Time
	EndDate            time.Time
	FirstEntryFee      *int64
	SubsequentEntryFee *int64
	NFCEntryFee        *int64
	SecretaryEmail     string
}

// Errors
var (
	ErrShowNotFound   = shared.NewDomainError("SHOW_NOT_FOUND", "Show not found")
	ErrEntriesNotOpen = shared.NewDomainError("ENTRIES_NOT_OPEN", "Show is not accepting entries")
	ErrInvalidClass   = shared.NewDomainError("INVALID_CLASS", "Class does not belong to this show")
)

// AcceptsEntries reports whether entries may be created or amended
func (s *Show) AcceptsEntries() bool {
	return s.Status == StatusEntriesOpen
}

// EnsureAcceptsEntries returns ErrEntriesNotOpen unless entries are open
func (s *Show) EnsureAcceptsEntries() error {
	if !s.AcceptsEntries() {
		return ErrEntriesNotOpen.Withf("show %q is %s, not accepting entries", s.Name, s.Status)
	}
	return nil
}

// OwnedBy reports whether the organisation runs this show
func (s *Show) OwnedBy(orgID uuid.UUID) bool {
	return s.OrganisationID == orgID
}

// FeeTiers returns the show's tier configuration
func (s *Show) FeeTiers() fee.TierConfig {
	return fee.TierConfig{
		FirstEntryFee:      s.FirstEntryFee,
		SubsequentEntryFee: s.SubsequentEntryFee,
		NFCEntryFee:        s.NFCEntryFee,
	}
}

// Repository loads shows
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Show, error)
	Save(ctx context.Context, s *Show) error
}
