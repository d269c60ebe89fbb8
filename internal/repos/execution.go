package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ExecutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TestExecution) ([]*types.TestExecution, error)
	GetByTestCaseIDs(ctx context.Context, tx *gorm.DB, testCaseIDs []uuid.UUID) ([]*types.TestExecution, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.TestExecution, error)
}

type executionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExecutionRepo(db *gorm.DB, baseLog *logger.Logger) ExecutionRepo {
	repoLog := baseLog.With("repo", "ExecutionRepo")
	return &executionRepo{db: db, log: repoLog}
}

func (r *executionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestExecution) ([]*types.TestExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TestExecution{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Results come back ordered (executed_at, seq) ascending so the last row per
// case is its latest execution; equal timestamps resolve by insertion order.
func (r *executionRepo) GetByTestCaseIDs(ctx context.Context, tx *gorm.DB, testCaseIDs []uuid.UUID) ([]*types.TestExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestExecution
	if len(testCaseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("test_case_id IN ?", testCaseIDs).
		Order("executed_at ASC, seq ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *executionRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.TestExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestExecution
	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("executed_at ASC, seq ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
