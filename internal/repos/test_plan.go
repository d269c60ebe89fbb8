package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type TestPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TestPlan) ([]*types.TestPlan, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestPlan, error)
}

type testPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestPlanRepo(db *gorm.DB, baseLog *logger.Logger) TestPlanRepo {
	repoLog := baseLog.With("repo", "TestPlanRepo")
	return &testPlanRepo{db: db, log: repoLog}
}

func (r *testPlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestPlan) ([]*types.TestPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TestPlan{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *testPlanRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestPlan
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
