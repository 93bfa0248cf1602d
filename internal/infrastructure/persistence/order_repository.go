package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements entry.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its sundry lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entry.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Sundries").First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByPaymentIntent loads the order a gateway intent was opened for
func (r *GormOrderRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*entry.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Sundries").First(&m, "payment_intent_id = ?", intentID).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// Create inserts the order with its sundry lines
func (r *GormOrderRepository) Create(ctx context.Context, o *entry.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error
}

// Save updates the order row, not its sundry lines
func (r *GormOrderRepository) Save(ctx context.Context, o *entry.Order) error {
	m := models.OrderModelFromDomain(o)
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Omit(clause.Associations).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":            m.Status,
			"total_amount":      m.TotalAmount,
			"payment_intent_id": m.PaymentIntentID,
			"paid_at":           m.PaidAt,
			"updated_at":        m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetPaymentIntent records the intent id without touching status
func (r *GormOrderRepository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"payment_intent_id": intentID, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ entry.OrderRepository = (*GormOrderRepository)(nil)
