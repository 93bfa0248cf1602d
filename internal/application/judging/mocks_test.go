package judging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"github.com/stretchr/testify/mock"
)

type MockShowRepository struct {
	mock.Mock
}

func (m *MockShowRepository) FindByID(ctx context.Context, id uuid.UUID) (*show.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Show), args.Error(1)
}

func (m *MockShowRepository) Save(ctx context.Context, s *show.Show) error {
	return m.Called(ctx, s).Error(0)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*judging.JudgeContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judging.JudgeContract), args.Error(1)
}

func (m *MockContractRepository) FindByTokenHash(ctx context.Context, hash string) (*judging.JudgeContract, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judging.JudgeContract), args.Error(1)
}

func (m *MockContractRepository) FindByShowAndJudge(ctx context.Context, showID, judgeID uuid.UUID) ([]judging.JudgeContract, error) {
	args := m.Called(ctx, showID, judgeID)
	return args.Get(0).([]judging.JudgeContract), args.Error(1)
}

func (m *MockContractRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]judging.JudgeContract, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).([]judging.JudgeContract), args.Error(1)
}

func (m *MockContractRepository) Create(ctx context.Context, c *judging.JudgeContract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) LockJudge(ctx context.Context, showID, judgeID uuid.UUID) error {
	return m.Called(ctx, showID, judgeID).Error(0)
}

func (m *MockContractRepository) SaveTransition(ctx context.Context, c *judging.JudgeContract, from judging.Stage) error {
	return m.Called(ctx, c, from).Error(0)
}

type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) Create(ctx context.Context, item *checklist.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockChecklistRepository) FindByEntity(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) ([]checklist.Item, error) {
	args := m.Called(ctx, showID, entityType, entityID)
	return args.Get(0).([]checklist.Item), args.Error(1)
}

func (m *MockChecklistRepository) CompleteByKey(ctx context.Context, key checklist.Key, at time.Time) (int64, error) {
	args := m.Called(ctx, key, at)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, templateKey, to string, data map[string]any) error {
	return m.Called(ctx, templateKey, to, data).Error(0)
}
