package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/show"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShowRepository implements show.Repository using GORM
type GormShowRepository struct {
	db *gorm.DB
}

// NewGormShowRepository creates a new GormShowRepository
func NewGormShowRepository(db *gorm.DB) *GormShowRepository {
	return &GormShowRepository{db: db}
}

// FindByID finds a show by its ID
func (r *GormShowRepository) FindByID(ctx context.Context, id uuid.UUID) (*show.Show, error) {
	var m models.ShowModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// Save creates or updates a show
func (r *GormShowRepository) Save(ctx context.Context, s *show.Show) error {
	return r.db.WithContext(ctx).Save(models.ShowModelFromDomain(s)).Error
}

// GormClassRepository implements show.ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByShow returns the show's schedule with class definitions
func (r *GormClassRepository) FindByShow(ctx context.Context, showID uuid.UUID) ([]show.ShowClass, error) {
	var rows []models.ShowClassModel
	err := r.db.WithContext(ctx).
		Preload("Definition").
		Where("show_id = ?", showID).
		Order("class_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	classes := make([]show.ShowClass, len(rows))
	for i := range rows {
		classes[i] = rows[i].ToDomain()
	}
	return classes, nil
}

// Save creates or updates a scheduled class
func (r *GormClassRepository) Save(ctx context.Context, c *show.ShowClass) error {
	return r.db.WithContext(ctx).Save(models.ShowClassModelFromDomain(c)).Error
}

// GormSundryRepository implements show.SundryRepository using GORM
type GormSundryRepository struct {
	db *gorm.DB
}

// NewGormSundryRepository creates a new GormSundryRepository
func NewGormSundryRepository(db *gorm.DB) *GormSundryRepository {
	return &GormSundryRepository{db: db}
}

// FindByIDs returns the items that exist; callers detect missing ids
func (r *GormSundryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]show.SundryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.SundryItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]show.SundryItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a sundry item
func (r *GormSundryRepository) Save(ctx context.Context, item *show.SundryItem) error {
	return r.db.WithContext(ctx).Save(models.SundryItemModelFromDomain(item)).Error
}

var (
	_ show.Repository       = (*GormShowRepository)(nil)
	_ show.ClassRepository  = (*GormClassRepository)(nil)
	_ show.SundryRepository = (*GormSundryRepository)(nil)
)
