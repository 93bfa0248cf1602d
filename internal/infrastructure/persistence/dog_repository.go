package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDogRepository implements dog.Repository using GORM
type GormDogRepository struct {
	db *gorm.DB
}

// NewGormDogRepository creates a new GormDogRepository
func NewGormDogRepository(db *gorm.DB) *GormDogRepository {
	return &GormDogRepository{db: db}
}

// FindByID loads a dog with breed and group, soft-deleted dogs included
func (r *GormDogRepository) FindByID(ctx context.Context, id uuid.UUID) (*dog.Dog, error) {
	var m models.DogModel
	if err := r.db.WithContext(ctx).Preload("Breed.Group").First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads the dogs that exist
func (r *GormDogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]dog.Dog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.DogModel
	if err := r.db.WithContext(ctx).Preload("Breed.Group").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	dogs := make([]dog.Dog, len(rows))
	for i := range rows {
		dogs[i] = *rows[i].ToDomain()
	}
	return dogs, nil
}

// Save creates or updates a dog
func (r *GormDogRepository) Save(ctx context.Context, d *dog.Dog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(models.DogModelFromDomain(d)).Error
}

// GormAchievementRepository implements dog.AchievementRepository using GORM
type GormAchievementRepository struct {
	db *gorm.DB
}

// NewGormAchievementRepository creates a new GormAchievementRepository
func NewGormAchievementRepository(db *gorm.DB) *GormAchievementRepository {
	return &GormAchievementRepository{db: db}
}

// FindByDog returns awards oldest first, optionally filtered by type
func (r *GormAchievementRepository) FindByDog(ctx context.Context, dogID uuid.UUID, types ...dog.AchievementType) ([]dog.Achievement, error) {
	query := r.db.WithContext(ctx).Where("dog_id = ?", dogID)
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		query = query.Where("achievement_type IN ?", names)
	}
	var rows []models.AchievementModel
	if err := query.Order("awarded_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dog.Achievement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save records an award
func (r *GormAchievementRepository) Save(ctx context.Context, a *dog.Achievement) error {
	return r.db.WithContext(ctx).Save(models.AchievementModelFromDomain(a)).Error
}

var (
	_ dog.Repository            = (*GormDogRepository)(nil)
	_ dog.AchievementRepository = (*GormAchievementRepository)(nil)
)
