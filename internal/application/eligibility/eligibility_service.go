// Package eligibility assembles a dog's record and evaluates its class
// eligibility and title progress.
package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/eligibility"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Requester is the caller asking for an evaluation. Secretaries may
// evaluate any dog; exhibitors only their own.
type Requester struct {
	UserID      uuid.UUID
	IsSecretary bool
}

// Report is the evaluation for one dog
type Report struct {
	DogID      uuid.UUID `json:"dog_id"`
	DogName    string    `json:"dog_name"`
	BreedGroup string    `json:"breed_group,omitempty"`
	eligibility.Result
}

// Service evaluates dogs
type Service struct {
	dogs         dog.Repository
	results      entry.ResultRepository
	achievements dog.AchievementRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates an eligibility Service
func NewService(dogs dog.Repository, results entry.ResultRepository, achievements dog.AchievementRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dogs:         dogs,
		results:      results,
		achievements: achievements,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate loads the dog's placings and CCs and evaluates them
func (s *Service) Evaluate(ctx context.Context, requester Requester, dogID uuid.UUID, fieldTrialEvidence bool) (*Report, error) {
	d, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, dog.ErrDogNotFound.Withf("dog %s not found", dogID)
		}
		return nil, fmt.Errorf("failed to load dog: %w", err)
	}
	if d.IsDeleted() {
		return nil, dog.ErrDogNotFound.Withf("dog %s not found", dogID)
	}
	if !requester.IsSecretary && !d.OwnedBy(requester.UserID) {
		return nil, dog.ErrDogNotOwned.Withf("%s is not owned by you", d.RegisteredName)
	}

	placings, err := s.results.FindPlacingsByDog(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load placings: %w", err)
	}
	awards, err := s.achievements.FindByDog(ctx, d.ID, dog.AchievementCC)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	in := eligibility.Input{
		DateOfBirth:        d.DateOfBirth,
		BreedGroup:         d.GroupName(),
		Wins:               make([]eligibility.Win, len(placings)),
		CCs:                make([]eligibility.CC, len(awards)),
		FieldTrialEvidence: fieldTrialEvidence,
		AsOf:               s.now(),
	}
	for i, p := range placings {
		in.Wins[i] = eligibility.Win{ShowType: p.ShowType, Placement: p.Placement, Date: p.ShowDate}
	}
	for i, a := range awards {
		in.CCs[i] = eligibility.CC{JudgeID: a.JudgeID, Date: a.AwardedAt}
	}

	res := eligibility.Evaluate(in)
	s.logger.Debug("Eligibility evaluated",
		zap.String("dog_id", d.ID.String()),
		zap.Int("firsts", res.Firsts),
		zap.Int("ccs", res.CCCount))

	return &Report{DogID: d.ID, DogName: d.RegisteredName, BreedGroup: in.BreedGroup, Result: res}, nil
}
