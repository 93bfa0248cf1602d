package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/catalogue"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCatalogueRepository implements catalogue.Repository using GORM
type GormCatalogueRepository struct {
	db *gorm.DB
}

// NewGormCatalogueRepository creates a new GormCatalogueRepository
func NewGormCatalogueRepository(db *gorm.DB) *GormCatalogueRepository {
	return &GormCatalogueRepository{db: db}
}

// LockShow takes a transaction-scoped advisory lock on the show. Other
// dialects rely on the surrounding transaction alone.
func (r *GormCatalogueRepository) LockShow(ctx context.Context, showID uuid.UUID) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", showID.String()).Error
}

// confirmedEntries keeps entries without a dog; their group, breed and
// sex come back NULL and sort last.
func confirmedEntries(db *gorm.DB, showID uuid.UUID) *gorm.DB {
	return db.Table("entries AS e").
		Joins("LEFT JOIN dogs d ON d.id = e.dog_id").
		Joins("LEFT JOIN breeds b ON b.id = d.breed_id").
		Joins("LEFT JOIN breed_groups g ON g.id = b.group_id").
		Where("e.show_id = ? AND e.status = ? AND e.deleted_at IS NULL", showID, string(entry.StatusConfirmed))
}

type sequenceRow struct {
	EntryID        uuid.UUID
	GroupSortOrder *int
	BreedName      *string
	Sex            *string
	EntryDate      time.Time
}

func sexOf(s *string) dog.Sex {
	if s == nil {
		return dog.SexUnset
	}
	return dog.Sex(*s)
}

// FindItems returns the show's confirmed, undeleted entries
func (r *GormCatalogueRepository) FindItems(ctx context.Context, showID uuid.UUID) ([]catalogue.Item, error) {
	var rows []sequenceRow
	err := confirmedEntries(r.db.WithContext(ctx), showID).
		Select("e.id AS entry_id, g.sort_order AS group_sort_order, b.name AS breed_name, d.sex AS sex, e.entry_date AS entry_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]catalogue.Item, len(rows))
	for i, row := range rows {
		items[i] = catalogue.Item{
			EntryID:        row.EntryID,
			GroupSortOrder: row.GroupSortOrder,
			Sex:            sexOf(row.Sex),
			EntryDate:      row.EntryDate,
		}
		if row.BreedName != nil {
			items[i].BreedName = *row.BreedName
		}
	}
	return items, nil
}

// ClearNumbers removes every catalogue number of the show
func (r *GormCatalogueRepository) ClearNumbers(ctx context.Context, showID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("show_id = ? AND catalogue_number IS NOT NULL", showID).
		Update("catalogue_number", nil).Error
}

// SetNumbers writes each assignment
func (r *GormCatalogueRepository) SetNumbers(ctx context.Context, assignments []catalogue.Assignment) error {
	db := r.db.WithContext(ctx)
	for _, a := range assignments {
		result := db.Model(&models.EntryModel{}).Where("id = ?", a.EntryID).Update("catalogue_number", a.Number)
		if result.Error != nil {
			return fmt.Errorf("failed to number entry %s: %w", a.EntryID, result.Error)
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("entry %s vanished during numbering", a.EntryID)
		}
	}
	return nil
}

type listingRow struct {
	EntryID     uuid.UUID
	Number      string
	DogName     *string
	BreedName   *string
	GroupName   *string
	Sex         *string
	ExhibitorID uuid.UUID
}

// ListNumbered returns numbered entries in catalogue order. Entries
// without a dog are listed under the junior handler's name.
func (r *GormCatalogueRepository) ListNumbered(ctx context.Context, showID uuid.UUID) ([]catalogue.Listing, error) {
	var rows []listingRow
	err := confirmedEntries(r.db.WithContext(ctx), showID).
		Joins("LEFT JOIN junior_handler_details jh ON jh.entry_id = e.id").
		Select("e.id AS entry_id, e.catalogue_number AS number, " +
			"COALESCE(d.registered_name, jh.handler_name) AS dog_name, " +
			"b.name AS breed_name, g.name AS group_name, d.sex AS sex, e.exhibitor_id AS exhibitor_id").
		Where("e.catalogue_number IS NOT NULL").
		Order("CAST(e.catalogue_number AS INTEGER) ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]catalogue.Listing, len(rows))
	for i, row := range rows {
		out[i] = catalogue.Listing{
			EntryID:     row.EntryID,
			Number:      row.Number,
			Sex:         sexOf(row.Sex),
			ExhibitorID: row.ExhibitorID,
		}
		if row.DogName != nil {
			out[i].DogName = *row.DogName
		}
		if row.BreedName != nil {
			out[i].BreedName = *row.BreedName
		}
		if row.GroupName != nil {
			out[i].GroupName = *row.GroupName
		}
	}
	return out, nil
}

var _ catalogue.Repository = (*GormCatalogueRepository)(nil)
