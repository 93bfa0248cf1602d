package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Show repositories
// =============================================================================

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

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) FindByShow(ctx context.Context, showID uuid.UUID) ([]show.ShowClass, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).([]show.ShowClass), args.Error(1)
}

func (m *MockClassRepository) Save(ctx context.Context, c *show.ShowClass) error {
	return m.Called(ctx, c).Error(0)
}

type MockSundryRepository struct {
	mock.Mock
}

func (m *MockSundryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]show.SundryItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]show.SundryItem), args.Error(1)
}

func (m *MockSundryRepository) Save(ctx context.Context, item *show.SundryItem) error {
	return m.Called(ctx, item).Error(0)
}

// =============================================================================
// Dog repository
// =============================================================================

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

// =============================================================================
// Entry repositories
// =============================================================================

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindActiveByDog(ctx context.Context, showID, dogID uuid.UUID) (*entry.Entry, error) {
	args := m.Called(ctx, showID, dogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindActiveByDogForUpdate(ctx context.Context, showID, dogID uuid.UUID) (*entry.Entry, error) {
	args := m.Called(ctx, showID, dogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindPendingByOrder(ctx context.Context, orderID uuid.UUID) ([]entry.Entry, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEntryRepository) AddClasses(ctx context.Context, classes []entry.EntryClass) error {
	return m.Called(ctx, classes).Error(0)
}

func (m *MockEntryRepository) ReplaceClasses(ctx context.Context, entryID uuid.UUID, classes []entry.EntryClass) error {
	return m.Called(ctx, entryID, classes).Error(0)
}

func (m *MockEntryRepository) Save(ctx context.Context, e *entry.Entry) error {
	return m.Called(ctx, e).Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entry.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*entry.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *entry.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *entry.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	return m.Called(ctx, orderID, intentID).Error(0)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, log *entry.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]entry.AuditLog, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).([]entry.AuditLog), args.Error(1)
}

// =============================================================================
// Payments
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByGatewayReference(ctx context.Context, ref string) (*payment.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindInitialByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindRefundable(ctx context.Context, orderIDs []uuid.UUID, minAmount int64) (*payment.Payment, error) {
	args := m.Called(ctx, orderIDs, minAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindOutstandingAdjustments(ctx context.Context, entryID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ReserveRefund(ctx context.Context, id uuid.UUID, amount int64) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) SetGatewayReference(ctx context.Context, id uuid.UUID, ref string) error {
	return m.Called(ctx, id, ref).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, req payment.RefundRequest) (*payment.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RefundResult), args.Error(1)
}

func (m *MockGateway) CancelIntent(ctx context.Context, intentID string) error {
	return m.Called(ctx, intentID).Error(0)
}

// =============================================================================
// Events
// =============================================================================

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
