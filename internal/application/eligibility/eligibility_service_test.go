package eligibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/eligibility"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDogRepository struct {
	mock.Mock
}

func (m *MockDogRepository) FindByID(ctx context.Context, id uuid.UUID) (*dog.Dog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dog.Dog), args.Error(1)
}

func (m *MockDogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]dog.Dog, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]dog.Dog), args.Error(1)
}

func (m *MockDogRepository) Save(ctx context.Context, d *dog.Dog) error {
	return m.Called(ctx, d).Error(0)
}

type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Save(ctx context.Context, r *entry.Result) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResultRepository) FindPlacingsByDog(ctx context.Context, dogID uuid.UUID) ([]entry.Placing, error) {
	args := m.Called(ctx, dogID)
	return args.Get(0).([]entry.Placing), args.Error(1)
}

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) FindByDog(ctx context.Context, dogID uuid.UUID, types ...dog.AchievementType) ([]dog.Achievement, error) {
	args := m.Called(ctx, dogID, types)
	return args.Get(0).([]dog.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) Save(ctx context.Context, a *dog.Achievement) error {
	return m.Called(ctx, a).Error(0)
}

func gundog(owner uuid.UUID) *dog.Dog {
	return &dog.Dog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           owner,
		RegisteredName:    "Fenwick Lad",
		Breed:             &dog.Breed{Name: "Pointer", Group: &dog.BreedGroup{Name: "Gundog"}},
	}
}

func TestService_Evaluate(t *testing.T) {
	owner := uuid.New()
	d := gundog(owner)
	dogs, results, awards := new(MockDogRepository), new(MockResultRepository), new(MockAchievementRepository)
	dogs.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	results.On("FindPlacingsByDog", mock.Anything, d.ID).Return([]entry.Placing{
		{ShowType: show.TypeOpen, Placement: 1, ShowDate: date},
		{ShowType: show.TypeChampionship, Placement: 1, ShowDate: date},
		{ShowType: show.TypeCompanion, Placement: 1, ShowDate: date},
		{ShowType: show.TypeOpen, Placement: 2, ShowDate: date},
	}, nil)
	awards.On("FindByDog", mock.Anything, d.ID, []dog.AchievementType{dog.AchievementCC}).Return([]dog.Achievement{
		{Type: dog.AchievementCC, JudgeID: "j1", AwardedAt: date},
	}, nil)

	svc := NewService(dogs, results, awards, nil)
	report, err := svc.Evaluate(context.Background(), Requester{UserID: owner}, d.ID, false)

	require.NoError(t, err)
	assert.Equal(t, "Fenwick Lad", report.DogName)
	assert.Equal(t, "Gundog", report.BreedGroup)
	assert.Equal(t, 2, report.Firsts)
	assert.Equal(t, 1, report.CCCount)
	assert.NotContains(t, report.EligibleClasses, eligibility.ClassMaiden)

	var titles []eligibility.Title
	for _, p := range report.Titles {
		titles = append(titles, p.Title)
	}
	assert.Contains(t, titles, eligibility.TitleShowChampion)
}

func TestService_EvaluateAccess(t *testing.T) {
	owner := uuid.New()
	d := gundog(owner)

	t.Run("stranger is refused", func(t *testing.T) {
		dogs := new(MockDogRepository)
		dogs.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		svc := NewService(dogs, new(MockResultRepository), new(MockAchievementRepository), nil)

		_, err := svc.Evaluate(context.Background(), Requester{UserID: uuid.New()}, d.ID, false)
		assert.True(t, errors.Is(err, dog.ErrDogNotOwned))
	})

	t.Run("secretary may evaluate", func(t *testing.T) {
		dogs, results, awards := new(MockDogRepository), new(MockResultRepository), new(MockAchievementRepository)
		dogs.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		results.On("FindPlacingsByDog", mock.Anything, d.ID).Return([]entry.Placing{}, nil)
		awards.On("FindByDog", mock.Anything, d.ID, mock.Anything).Return([]dog.Achievement{}, nil)
		svc := NewService(dogs, results, awards, nil)

		report, err := svc.Evaluate(context.Background(), Requester{UserID: uuid.New(), IsSecretary: true}, d.ID, false)
		require.NoError(t, err)
		assert.Equal(t, eligibility.ClassMaiden, report.SuggestedClass)
	})

	t.Run("unknown dog", func(t *testing.T) {
		dogs := new(MockDogRepository)
		id := uuid.New()
		dogs.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
		svc := NewService(dogs, new(MockResultRepository), new(MockAchievementRepository), nil)

		_, err := svc.Evaluate(context.Background(), Requester{UserID: owner}, id, false)
		assert.True(t, errors.Is(err, dog.ErrDogNotFound))
	})
}
