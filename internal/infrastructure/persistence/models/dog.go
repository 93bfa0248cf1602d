package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
)

// BreedGroupModel is a KC breed group
type BreedGroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	SortOrder int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BreedGroupModel) TableName() string {
	return "breed_groups"
}

// BreedModel is a breed, optionally in a group
type BreedModel struct {
	ID      uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name    string           `gorm:"size:100;not null;uniqueIndex"`
	GroupID *uuid.UUID       `gorm:"type:uuid"`
	Group   *BreedGroupModel `gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for GORM
func (BreedModel) TableName() string {
	return "breeds"
}

// ToDomain converts the model to a domain Breed
func (m *BreedModel) ToDomain() *dog.Breed {
	b := &dog.Breed{ID: m.ID, Name: m.Name, GroupID: m.GroupID}
	if m.Group != nil {
		b.Group = &dog.BreedGroup{ID: m.Group.ID, Name: m.Group.Name, SortOrder: m.Group.SortOrder}
	}
	return b
}

// DogModel is the persistence model for a dog
type DogModel struct {
	AggregateModel
	OwnerID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	RegisteredName string      `gorm:"size:200;not null"`
	BreedID        *uuid.UUID  `gorm:"type:uuid"`
	Breed          *BreedModel `gorm:"foreignKey:BreedID"`
	Sex            string      `gorm:"size:10;not null;default:''"`
	DateOfBirth    *time.Time  `gorm:"type:date"`
	DeletedAt      *time.Time
}

// TableName returns the table name for GORM
func (DogModel) TableName() string {
	return "dogs"
}

// ToDomain converts the model to a domain Dog
func (m *DogModel) ToDomain() *dog.Dog {
	d := &dog.Dog{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OwnerID:           m.OwnerID,
		RegisteredName:    m.RegisteredName,
		BreedID:           m.BreedID,
		Sex:               dog.Sex(m.Sex),
		DateOfBirth:       m.DateOfBirth,
		DeletedAt:         m.DeletedAt,
	}
	if m.Breed != nil {
		d.Breed = m.Breed.ToDomain()
	}
	return d
}

// DogModelFromDomain converts a domain Dog to a model
func DogModelFromDomain(d *dog.Dog) *DogModel {
	m := &DogModel{
		OwnerID:        d.OwnerID,
		RegisteredName: d.RegisteredName,
		BreedID:        d.BreedID,
		Sex:            string(d.Sex),
		DateOfBirth:    d.DateOfBirth,
		DeletedAt:      d.DeletedAt,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}

// AchievementModel is a dated award
type AchievementModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DogID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	AchievementType string     `gorm:"size:30;not null"`
	ShowID          *uuid.UUID `gorm:"type:uuid"`
	JudgeID         string     `gorm:"size:100"`
	AwardedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AchievementModel) TableName() string {
	return "dog_achievements"
}

// ToDomain converts the model to a domain Achievement
func (m *AchievementModel) ToDomain() dog.Achievement {
	return dog.Achievement{
		ID:        m.ID,
		DogID:     m.DogID,
		Type:      dog.AchievementType(m.AchievementType),
		ShowID:    m.ShowID,
		JudgeID:   m.JudgeID,
		AwardedAt: m.AwardedAt,
	}
}

// AchievementModelFromDomain converts a domain Achievement to a model
func AchievementModelFromDomain(a *dog.Achievement) *AchievementModel {
	return &AchievementModel{
		ID:              a.ID,
		DogID:           a.DogID,
		AchievementType: string(a.Type),
		ShowID:          a.ShowID,
		JudgeID:         a.JudgeID,
		AwardedAt:       a.AwardedAt,
	}
}

// UserModel is the slice of the users table this service reads
type UserModel struct {
	BaseModel
	Email          string     `gorm:"size:255;not null;uniqueIndex"`
	DisplayName    string     `gorm:"size:200"`
	Role           string     `gorm:"size:30;not null"`
	OrganisationID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
