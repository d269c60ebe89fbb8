package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type DefectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Defect) ([]*types.Defect, error)
	CountOpenBySeverity(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, severity types.DefectSeverity) (int64, error)
}

type defectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDefectRepo(db *gorm.DB, baseLog *logger.Logger) DefectRepo {
	repoLog := baseLog.With("repo", "DefectRepo")
	return &defectRepo{db: db, log: repoLog}
}

func (r *defectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Defect) ([]*types.Defect, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Defect{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Open for gate purposes means not yet resolved or closed.
func (r *defectRepo) CountOpenBySeverity(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, severity types.DefectSeverity) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Defect{}).
		Where("project_id = ? AND severity = ? AND status IN ?",
			projectID, severity, []types.DefectStatus{types.DefectOpen, types.DefectInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
