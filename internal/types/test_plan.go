package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestPlanStatus string

const (
	TestPlanDraft     TestPlanStatus = "draft"
	TestPlanActive    TestPlanStatus = "active"
	TestPlanCompleted TestPlanStatus = "completed"
)

type TestPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Status    TestPlanStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TestPlan) TableName() string { return "test_plan" }
