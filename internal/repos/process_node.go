package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ProcessNodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessNode) ([]*types.ProcessNode, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessNode, error)
	GetChildren(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, level int) ([]*types.ProcessNode, error)
}

type processNodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessNodeRepo(db *gorm.DB, baseLog *logger.Logger) ProcessNodeRepo {
	repoLog := baseLog.With("repo", "ProcessNodeRepo")
	return &processNodeRepo{db: db, log: repoLog}
}

func (r *processNodeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessNode) ([]*types.ProcessNode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ProcessNode{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *processNodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessNode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProcessNode
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

func (r *processNodeRepo) GetChildren(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, level int) ([]*types.ProcessNode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProcessNode
	query := transaction.WithContext(ctx).Where("parent_id = ?", parentID)
	if level > 0 {
		query = query.Where("level = ?", level)
	}
	if err := query.Order("code ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
