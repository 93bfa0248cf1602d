package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEntryRepository implements entry.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) withClasses(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("JuniorHandler").
		Where("deleted_at IS NULL")
}

// FindByID loads an undeleted entry with its classes
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	var m models.EntryModel
	if err := r.withClasses(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate is FindByID holding a row lock until the surrounding
// transaction ends
func (r *GormEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	var m models.EntryModel
	err := r.withClasses(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

func activeScope(showID, dogID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("show_id = ? AND dog_id = ? AND status NOT IN ?",
			showID, dogID, inactiveStatuses())
	}
}

func inactiveStatuses() []string {
	out := make([]string, len(entry.InactiveStatuses))
	for i, s := range entry.InactiveStatuses {
		out[i] = string(s)
	}
	return out
}

// FindActiveByDog returns the dog's active entry in the show
func (r *GormEntryRepository) FindActiveByDog(ctx context.Context, showID, dogID uuid.UUID) (*entry.Entry, error) {
	var m models.EntryModel
	if err := r.withClasses(ctx).Scopes(activeScope(showID, dogID)).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindActiveByDogForUpdate is FindActiveByDog holding a row lock until the
// surrounding transaction ends
func (r *GormEntryRepository) FindActiveByDogForUpdate(ctx context.Context, showID, dogID uuid.UUID) (*entry.Entry, error) {
	var m models.EntryModel
	err := r.withClasses(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(activeScope(showID, dogID)).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindPendingByOrder returns pending entries holding a class paid by the order
func (r *GormEntryRepository) FindPendingByOrder(ctx context.Context, orderID uuid.UUID) ([]entry.Entry, error) {
	var rows []models.EntryModel
	err := r.withClasses(ctx).
		Where("status = ?", string(entry.StatusPending)).
		Where("id IN (?)", r.db.Model(&models.EntryClassModel{}).Select("entry_id").Where("order_id = ?", orderID)).
		Order("entry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entry.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts the entry, its classes and junior handler details. A
// violation of the one-active-entry index is ErrDuplicateEntry.
func (r *GormEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(models.EntryModelFromDomain(e)).Error; err != nil {
		if isUniqueViolation(err) {
			return entry.ErrDuplicateEntry.Withf("dog already has an active entry in this show")
		}
		return err
	}
	if err := r.AddClasses(ctx, e.Classes); err != nil {
		return err
	}
	if e.JuniorHandler != nil {
		jh := *e.JuniorHandler
		if jh.ID == uuid.Nil {
			jh.ID = uuid.New()
		}
		jh.EntryID = e.ID
		if err := db.Create(models.JuniorHandlerModelFromDomain(&jh)).Error; err != nil {
			return fmt.Errorf("failed to create junior handler details: %w", err)
		}
	}
	return nil
}

// AddClasses inserts entry classes
func (r *GormEntryRepository) AddClasses(ctx context.Context, classes []entry.EntryClass) error {
	if len(classes) == 0 {
		return nil
	}
	rows := models.EntryClassModelsFromDomain(classes)
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return entry.ErrDuplicateEntryClass.Withf("dog is already entered in one of these classes")
		}
		return err
	}
	return nil
}

// ReplaceClasses swaps every class row of the entry
func (r *GormEntryRepository) ReplaceClasses(ctx context.Context, entryID uuid.UUID, classes []entry.EntryClass) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("entry_id = ?", entryID).Delete(&models.EntryClassModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove entry classes: %w", err)
	}
	return r.AddClasses(ctx, classes)
}

// Save updates the entry row, not its classes
func (r *GormEntryRepository) Save(ctx context.Context, e *entry.Entry) error {
	m := models.EntryModelFromDomain(e)
	result := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"status":           m.Status,
			"total_fee":        m.TotalFee,
			"catalogue_number": m.CatalogueNumber,
			"deleted_at":       m.DeletedAt,
			"updated_at":       m.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return entry.ErrDuplicateEntry.Withf("dog already has an active entry in this show")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormAuditLogRepository implements entry.AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts an audit row
func (r *GormAuditLogRepository) Append(ctx context.Context, log *entry.AuditLog) error {
	return r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(log)).Error
}

// ListByEntry returns the entry's audit trail oldest first
func (r *GormAuditLogRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]entry.AuditLog, error) {
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entry.AuditLog, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// GormResultRepository implements entry.ResultRepository using GORM
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GormResultRepository
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Save inserts a result; a second result for the same entry class is
// shared.ErrAlreadyExists
func (r *GormResultRepository) Save(ctx context.Context, res *entry.Result) error {
	if err := r.db.WithContext(ctx).Create(models.ResultModelFromDomain(res)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.Withf("entry class %s already has a result", res.EntryClassID)
		}
		return err
	}
	return nil
}

type placingRow struct {
	ShowID    uuid.UUID
	ShowType  string
	ShowDate  time.Time
	Placement int
}

// FindPlacingsByDog returns placings from the dog's confirmed entries,
// oldest show first
func (r *GormResultRepository) FindPlacingsByDog(ctx context.Context, dogID uuid.UUID) ([]entry.Placing, error) {
	var rows []placingRow
	err := r.db.WithContext(ctx).
		Table("results AS r").
		Select("s.id AS show_id, s.show_type AS show_type, s.start_date AS show_date, r.placement AS placement").
		Joins("JOIN entry_classes ec ON ec.id = r.entry_class_id").
		Joins("JOIN entries e ON e.id = ec.entry_id").
		Joins("JOIN shows s ON s.id = e.show_id").
		Where("e.dog_id = ? AND e.status = ? AND e.deleted_at IS NULL AND r.placement IS NOT NULL",
			dogID, string(entry.StatusConfirmed)).
		Order("s.start_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entry.Placing, len(rows))
	for i, row := range rows {
		out[i] = entry.Placing{
			ShowID:    row.ShowID,
			ShowType:  show.Type(row.ShowType),
			ShowDate:  row.ShowDate,
			Placement: row.Placement,
		}
	}
	return out, nil
}

var (
	_ entry.EntryRepository    = (*GormEntryRepository)(nil)
	_ entry.AuditLogRepository = (*GormAuditLogRepository)(nil)
	_ entry.ResultRepository   = (*GormResultRepository)(nil)
)
