package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) first(ctx context.Context, query any, args ...any) (*payment.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at ASC").First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByGatewayReference finds a payment by its gateway id
func (r *GormPaymentRepository) FindByGatewayReference(ctx context.Context, ref string) (*payment.Payment, error) {
	return r.first(ctx, "gateway_reference = ?", ref)
}

// FindInitialByOrder returns the order's initial payment
func (r *GormPaymentRepository) FindInitialByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	return r.first(ctx, "order_id = ? AND payment_type = ?", orderID, string(payment.TypeInitial))
}

// FindRefundable returns the oldest succeeded charge on the orders with at
// least minAmount left to refund
func (r *GormPaymentRepository) FindRefundable(ctx context.Context, orderIDs []uuid.UUID, minAmount int64) (*payment.Payment, error) {
	if len(orderIDs) == 0 {
		return nil, shared.ErrNotFound
	}
	return r.first(ctx,
		"order_id IN ? AND status = ? AND payment_type IN ? AND gateway_reference IS NOT NULL AND amount - refunded_amount >= ?",
		orderIDs,
		string(payment.StatusSucceeded),
		[]string{string(payment.TypeInitial), string(payment.TypeAdjustment)},
		minAmount,
	)
}

// FindOutstandingAdjustments returns the entry's uncaptured top-ups
func (r *GormPaymentRepository) FindOutstandingAdjustments(ctx context.Context, entryID uuid.UUID) ([]payment.Payment, error) {
	var rows []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("entry_id = ? AND payment_type = ? AND status IN ?",
			entryID,
			string(payment.TypeAdjustment),
			[]string{string(payment.StatusPending), string(payment.StatusFailed)}).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]payment.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ReserveRefund claims amount against the payment's refundable balance in
// one conditional update, so two refunds cannot both spend the same
// balance.
func (r *GormPaymentRepository) ReserveRefund(ctx context.Context, id uuid.UUID, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ? AND amount - refunded_amount >= ?", id, string(payment.StatusSucceeded), amount).
		Updates(map[string]any{
			"refunded_amount": gorm.Expr("refunded_amount + ?", amount),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Create inserts a payment
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(p)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.Withf("payment reference already recorded")
		}
		return err
	}
	return nil
}

// Save updates a payment. RefundedAmount only moves through ReserveRefund.
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	m := models.PaymentModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"status":            m.Status,
			"gateway_reference": m.GatewayReference,
			"metadata":          m.Metadata,
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

// SetGatewayReference records the gateway id without touching status
func (r *GormPaymentRepository) SetGatewayReference(ctx context.Context, id uuid.UUID, ref string) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"gateway_reference": ref, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
