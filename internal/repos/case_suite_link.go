package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type CaseSuiteLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.CaseSuiteLink) (*types.CaseSuiteLink, error)
	DeleteByPair(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID) (int64, error)
	GetBySuiteID(ctx context.Context, tx *gorm.DB, suiteID uuid.UUID) ([]*types.CaseSuiteLink, error)
	GetByTestCaseID(ctx context.Context, tx *gorm.DB, testCaseID uuid.UUID) ([]*types.CaseSuiteLink, error)
}

type caseSuiteLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseSuiteLinkRepo(db *gorm.DB, baseLog *logger.Logger) CaseSuiteLinkRepo {
	repoLog := baseLog.With("repo", "CaseSuiteLinkRepo")
	return &caseSuiteLinkRepo{db: db, log: repoLog}
}

// Create relies on the (test_case_id, suite_id) unique index: a concurrent
// duplicate insert fails at the constraint and the raw error is returned for
// the service layer to classify.
func (r *caseSuiteLinkRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CaseSuiteLink) (*types.CaseSuiteLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *caseSuiteLinkRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Where("test_case_id = ? AND suite_id = ?", testCaseID, suiteID).
		Delete(&types.CaseSuiteLink{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *caseSuiteLinkRepo) GetBySuiteID(ctx context.Context, tx *gorm.DB, suiteID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CaseSuiteLink
	if err := transaction.WithContext(ctx).
		Where("suite_id = ?", suiteID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *caseSuiteLinkRepo) GetByTestCaseID(ctx context.Context, tx *gorm.DB, testCaseID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CaseSuiteLink
	if err := transaction.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
