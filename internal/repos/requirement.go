package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type RequirementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Requirement) ([]*types.Requirement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Requirement, error)
	GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.Requirement, error)
}

type requirementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequirementRepo(db *gorm.DB, baseLog *logger.Logger) RequirementRepo {
	repoLog := baseLog.With("repo", "RequirementRepo")
	return &requirementRepo{db: db, log: repoLog}
}

func (r *requirementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Requirement) ([]*types.Requirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Requirement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *requirementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Requirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Requirement
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

func (r *requirementRepo) GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.Requirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Requirement
	if len(anchorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("anchor_id IN ?", anchorIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
