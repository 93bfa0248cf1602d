package testutil

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/show"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixtures inserts rows through the persistence models.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

// NewFixtures binds the builders to db.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

// User inserts a user with the given role. orgID may be nil.
func (f *Fixtures) User(role string, orgID *uuid.UUID) *models.UserModel {
	m := &models.UserModel{
		Email:          gofakeit.Email(),
		DisplayName:    gofakeit.Name(),
		Role:           role,
		OrganisationID: orgID,
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	f.create(m)
	return m
}

// Exhibitor inserts a user with the exhibitor role.
func (f *Fixtures) Exhibitor() *models.UserModel {
	return f.User("exhibitor", nil)
}

// Breed inserts a breed, creating its group when groupName is not empty.
func (f *Fixtures) Breed(name, groupName string, groupSort int) *models.BreedModel {
	b := &models.BreedModel{ID: uuid.New(), Name: name}
	if groupName != "" {
		var g models.BreedGroupModel
		err := f.db.Where("name = ?", groupName).First(&g).Error
		if err != nil {
			g = models.BreedGroupModel{ID: uuid.New(), Name: groupName, SortOrder: groupSort}
			f.create(&g)
		}
		b.GroupID = &g.ID
	}
	f.create(b)
	return b
}

// Dog inserts a dog owned by ownerID.
func (f *Fixtures) Dog(ownerID uuid.UUID, breedID *uuid.UUID, sex dog.Sex, dob time.Time) *models.DogModel {
	m := &models.DogModel{
		OwnerID:        ownerID,
		RegisteredName: gofakeit.PetName() + " " + gofakeit.LastName(),
		BreedID:        breedID,
		Sex:            string(sex),
		DateOfBirth:    &dob,
	}
	m.ID = uuid.New()
	m.Version = 1
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	f.create(m)
	return m
}

// Show inserts a show of the given type and status, starting on start.
func (f *Fixtures) Show(orgID uuid.UUID, showType show.Type, status show.Status, start time.Time) *models.ShowModel {
	m := &models.ShowModel{
		OrganisationID: orgID,
		Name:           gofakeit.City() + " Canine Society " + string(showType) + " Show",
		ShowType:       string(showType),
		Status:         string(status),
		StartDate:      start,
		EndDate:        start,
		SecretaryEmail: gofakeit.Email(),
	}
	m.ID = uuid.New()
	m.Version = 1
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	f.create(m)
	return m
}

// ShowClass schedules the named class at a show, creating the class
// definition on first use.
func (f *Fixtures) ShowClass(showID uuid.UUID, className string, number int, fee int64) *models.ShowClassModel {
	var def models.ClassDefinitionModel
	if err := f.db.Where("name = ?", className).First(&def).Error; err != nil {
		def = models.ClassDefinitionModel{ID: uuid.New(), Name: className, ClassType: string(show.ClassTypeAchievement), SortOrder: number}
		f.create(&def)
	}
	m := &models.ShowClassModel{
		ID:                uuid.New(),
		ShowID:            showID,
		ClassDefinitionID: def.ID,
		EntryFee:          fee,
		ClassNumber:       number,
	}
	f.create(m)
	m.Definition = &def
	return m
}
