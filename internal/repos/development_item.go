package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type DevelopmentItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.DevelopmentItem) ([]*types.DevelopmentItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DevelopmentItem, error)
	GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.DevelopmentItem, error)
}

type developmentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDevelopmentItemRepo(db *gorm.DB, baseLog *logger.Logger) DevelopmentItemRepo {
	repoLog := baseLog.With("repo", "DevelopmentItemRepo")
	return &developmentItemRepo{db: db, log: repoLog}
}

func (r *developmentItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DevelopmentItem) ([]*types.DevelopmentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.DevelopmentItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *developmentItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DevelopmentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DevelopmentItem
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

func (r *developmentItemRepo) GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.DevelopmentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DevelopmentItem
	if len(requirementIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("requirement_id IN ?", requirementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
