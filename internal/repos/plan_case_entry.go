package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type PlanCaseEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.PlanCaseEntry) (*types.PlanCaseEntry, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.PlanCaseEntry, error)
	DeleteByPair(ctx context.Context, tx *gorm.DB, planID, testCaseID uuid.UUID) (int64, error)
}

type planCaseEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanCaseEntryRepo(db *gorm.DB, baseLog *logger.Logger) PlanCaseEntryRepo {
	repoLog := baseLog.With("repo", "PlanCaseEntryRepo")
	return &planCaseEntryRepo{db: db, log: repoLog}
}

func (r *planCaseEntryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PlanCaseEntry) (*types.PlanCaseEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *planCaseEntryRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.PlanCaseEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PlanCaseEntry
	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("execution_order ASC NULLS LAST, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planCaseEntryRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, planID, testCaseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Where("plan_id = ? AND test_case_id = ?", planID, testCaseID).
		Delete(&types.PlanCaseEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
