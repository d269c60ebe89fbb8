package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type TestCaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TestCase) ([]*types.TestCase, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.TestCase) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestCase, error)
	GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.TestCase, error)
	GetByDevelopmentItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.TestCase, error)
	GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.TestCase, error)
	ArchiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type testCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestCaseRepo(db *gorm.DB, baseLog *logger.Logger) TestCaseRepo {
	repoLog := baseLog.With("repo", "TestCaseRepo")
	return &testCaseRepo{db: db, log: repoLog}
}

func (r *testCaseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestCase) ([]*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TestCase{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *testCaseRepo) Update(ctx context.Context, tx *gorm.DB, row *types.TestCase) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *testCaseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestCase
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

// Archived cases are excluded from traceability queries: they no longer
// count toward coverage, but remain loadable by id.

func (r *testCaseRepo) GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestCase
	if len(anchorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("anchor_id IN ? AND archived_at IS NULL", anchorIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testCaseRepo) GetByDevelopmentItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestCase
	if len(itemIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("development_item_id IN ? AND archived_at IS NULL", itemIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testCaseRepo) GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestCase
	if len(requirementIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("requirement_id IN ? AND archived_at IS NULL", requirementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testCaseRepo) ArchiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.TestCase{}).
		Where("id = ?", id).
		Update("archived_at", &now).Error
}
