package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ScopeDeclarationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ScopeDeclaration) (*types.ScopeDeclaration, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopeDeclaration, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.ScopeDeclaration, error)
	UpdateCoverageStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.CoverageStatus) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type scopeDeclarationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScopeDeclarationRepo(db *gorm.DB, baseLog *logger.Logger) ScopeDeclarationRepo {
	repoLog := baseLog.With("repo", "ScopeDeclarationRepo")
	return &scopeDeclarationRepo{db: db, log: repoLog}
}

func (r *scopeDeclarationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ScopeDeclaration) (*types.ScopeDeclaration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *scopeDeclarationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopeDeclaration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScopeDeclaration
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scopeDeclarationRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.ScopeDeclaration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScopeDeclaration
	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("priority DESC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateCoverageStatus is the single write path for the coverage_status
// cache. Every call is a full overwrite from a fresh computation.
func (r *scopeDeclarationRepo) UpdateCoverageStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.CoverageStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ScopeDeclaration{}).
		Where("id = ?", id).
		Update("coverage_status", status).Error
}

func (r *scopeDeclarationRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ScopeDeclaration{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
