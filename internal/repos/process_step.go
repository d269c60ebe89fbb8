package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ProcessStepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessStep) ([]*types.ProcessStep, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessStep, error)
}

type processStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessStepRepo(db *gorm.DB, baseLog *logger.Logger) ProcessStepRepo {
	repoLog := baseLog.With("repo", "ProcessStepRepo")
	return &processStepRepo{db: db, log: repoLog}
}

func (r *processStepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessStep) ([]*types.ProcessStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ProcessStep{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *processStepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProcessStep
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
