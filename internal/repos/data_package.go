package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type DataPackageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.DataPackage) ([]*types.DataPackage, error)
	GetMandatoryByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.DataPackage, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.DataPackageStatus) error
}

type dataPackageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataPackageRepo(db *gorm.DB, baseLog *logger.Logger) DataPackageRepo {
	repoLog := baseLog.With("repo", "DataPackageRepo")
	return &dataPackageRepo{db: db, log: repoLog}
}

func (r *dataPackageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DataPackage) ([]*types.DataPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.DataPackage{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dataPackageRepo) GetMandatoryByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.DataPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DataPackage
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND mandatory = ?", projectID, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dataPackageRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.DataPackageStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DataPackage{}).
		Where("id = ?", id).
		Update("status", status).Error
}
