package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactDirectory resolves user emails from the users table
type GormContactDirectory struct {
	db *gorm.DB
}

// NewGormContactDirectory creates a new GormContactDirectory
func NewGormContactDirectory(db *gorm.DB) *GormContactDirectory {
	return &GormContactDirectory{db: db}
}

// EmailFor returns the user's email address
func (r *GormContactDirectory) EmailFor(ctx context.Context, userID uuid.UUID) (string, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).Select("id", "email").First(&m, "id = ?", userID).Error; err != nil {
		return "", notFound(err)
	}
	return m.Email, nil
}

var _ shared.ContactDirectory = (*GormContactDirectory)(nil)
