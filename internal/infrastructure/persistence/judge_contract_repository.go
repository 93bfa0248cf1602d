package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJudgeContractRepository implements judging.Repository using GORM
type GormJudgeContractRepository struct {
	db *gorm.DB
}

// NewGormJudgeContractRepository creates a new GormJudgeContractRepository
func NewGormJudgeContractRepository(db *gorm.DB) *GormJudgeContractRepository {
	return &GormJudgeContractRepository{db: db}
}

// LockJudge takes a transaction-scoped advisory lock on the show and judge
// pair. Other dialects rely on the surrounding transaction alone.
func (r *GormJudgeContractRepository) LockJudge(ctx context.Context, showID, judgeID uuid.UUID) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", "judge_contract:"+showID.String()+":"+judgeID.String()).Error
}

// FindByID finds a contract by its ID
func (r *GormJudgeContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*judging.JudgeContract, error) {
	var m models.JudgeContractModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByTokenHash finds the contract an offer link points at
func (r *GormJudgeContractRepository) FindByTokenHash(ctx context.Context, hash string) (*judging.JudgeContract, error) {
	var m models.JudgeContractModel
	if err := r.db.WithContext(ctx).First(&m, "token_hash = ?", hash).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByShowAndJudge returns every contract cycle for the judge at the show
func (r *GormJudgeContractRepository) FindByShowAndJudge(ctx context.Context, showID, judgeID uuid.UUID) ([]judging.JudgeContract, error) {
	return r.list(r.db.WithContext(ctx).Where("show_id = ? AND judge_id = ?", showID, judgeID))
}

// ListByShow returns the show's contracts, newest offer first
func (r *GormJudgeContractRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]judging.JudgeContract, error) {
	return r.list(r.db.WithContext(ctx).Where("show_id = ?", showID))
}

func (r *GormJudgeContractRepository) list(query *gorm.DB) ([]judging.JudgeContract, error) {
	var rows []models.JudgeContractModel
	if err := query.Order("offer_sent_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]judging.JudgeContract, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts a new contract
func (r *GormJudgeContractRepository) Create(ctx context.Context, c *judging.JudgeContract) error {
	if err := r.db.WithContext(ctx).Create(models.JudgeContractModelFromDomain(c)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.Withf("judge already has a live contract for this show")
		}
		return err
	}
	return nil
}

// SaveTransition is a compare-and-set on the stored stage. Zero affected
// rows means another request moved the contract first.
func (r *GormJudgeContractRepository) SaveTransition(ctx context.Context, c *judging.JudgeContract, from judging.Stage) error {
	result := r.db.WithContext(ctx).
		Model(&models.JudgeContractModel{}).
		Where("id = ? AND stage = ?", c.ID, string(from)).
		Updates(map[string]any{
			"stage":        string(c.Stage),
			"accepted_at":  c.AcceptedAt,
			"declined_at":  c.DeclinedAt,
			"confirmed_at": c.ConfirmedAt,
			"updated_at":   c.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return judging.ErrContractExists.Withf("judge already has an accepted contract for this show")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.Withf("contract %s is no longer %s", c.ID, from)
	}
	c.IncrementVersion()
	return nil
}

var _ judging.Repository = (*GormJudgeContractRepository)(nil)
