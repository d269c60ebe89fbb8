package types

import (
	"time"

	"github.com/google/uuid"
)

type DataPackageStatus string

const (
	DataPackagePending DataPackageStatus = "pending"
	DataPackageLoading DataPackageStatus = "loading"
	DataPackageReady   DataPackageStatus = "ready"
	DataPackageFailed  DataPackageStatus = "failed"
)

// DataPackage tracks readiness of a supporting data load (master data,
// migrated transactional data) that a test cycle depends on. Mandatory
// packages feed the exit gate.
type DataPackage struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID         `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name      string            `gorm:"column:name;not null" json:"name"`
	Mandatory bool              `gorm:"column:mandatory;not null;default:false" json:"mandatory"`
	Status    DataPackageStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (DataPackage) TableName() string { return "data_package" }
