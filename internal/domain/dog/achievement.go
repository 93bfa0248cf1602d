package dog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AchievementType is an award recorded against a dog
type AchievementType string

const (
	AchievementCC          AchievementType = "cc"
	AchievementReserveCC   AchievementType = "reserve_cc"
	AchievementBestOfBreed AchievementType = "best_of_breed"
	AchievementBestPuppy   AchievementType = "best_puppy_in_breed"
	AchievementGroupPlace  AchievementType = "group_placing"
	AchievementBestInShow  AchievementType = "best_in_show"
)

// Achievement is a dated award, kept apart from class results
type Achievement struct {
	ID        uuid.UUID
	DogID     uuid.UUID
	Type      AchievementType
	ShowID    *uuid.UUID
	JudgeID   string
	AwardedAt time.Time
}

// NewAchievement records an award
func NewAchievement(dogID uuid.UUID, t AchievementType, showID *uuid.UUID, judgeID string, at time.Time) *Achievement {
	return &Achievement{
		ID:        uuid.New(),
		DogID:     dogID,
		Type:      t,
		ShowID:    showID,
		JudgeID:   judgeID,
		AwardedAt: at,
	}
}

// AchievementRepository stores awards
type AchievementRepository interface {
	FindByDog(ctx context.Context, dogID uuid.UUID, types ...AchievementType) ([]Achievement, error)
	Save(ctx context.Context, a *Achievement) error
}
