package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type TestSuiteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TestSuite) ([]*types.TestSuite, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestSuite, error)
}

type testSuiteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestSuiteRepo(db *gorm.DB, baseLog *logger.Logger) TestSuiteRepo {
	repoLog := baseLog.With("repo", "TestSuiteRepo")
	return &testSuiteRepo{db: db, log: repoLog}
}

func (r *testSuiteRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestSuite) ([]*types.TestSuite, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TestSuite{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *testSuiteRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestSuite, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestSuite
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
