package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormChecklistRepository implements checklist.Repository using GORM
type GormChecklistRepository struct {
	db *gorm.DB
}

// NewGormChecklistRepository creates a new GormChecklistRepository
func NewGormChecklistRepository(db *gorm.DB) *GormChecklistRepository {
	return &GormChecklistRepository{db: db}
}

// Create inserts a checklist item
func (r *GormChecklistRepository) Create(ctx context.Context, item *checklist.Item) error {
	return r.db.WithContext(ctx).Create(models.ChecklistItemModelFromDomain(item)).Error
}

// FindByEntity returns the items tagged with the entity
func (r *GormChecklistRepository) FindByEntity(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) ([]checklist.Item, error) {
	var rows []models.ChecklistItemModel
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND entity_type = ? AND entity_id = ?", showID, entityType, entityID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]checklist.Item, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CompleteByKey stamps every open item matching key
func (r *GormChecklistRepository) CompleteByKey(ctx context.Context, key checklist.Key, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ChecklistItemModel{}).
		Where("show_id = ? AND entity_type = ? AND entity_id = ? AND auto_detect_key = ? AND completed_at IS NULL",
			key.ShowID, key.EntityType, key.EntityID, key.AutoDetectKey).
		Update("completed_at", at)
	return result.RowsAffected, result.Error
}

var _ checklist.Repository = (*GormChecklistRepository)(nil)
