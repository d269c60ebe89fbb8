package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanCaseEntry puts one test case into one plan's working set, with the
// planning metadata that belongs to the plan rather than the case.
type PlanCaseEntry struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_plan_case,unique" json:"plan_id"`
	Plan           *TestPlan      `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	TestCaseID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_plan_case,unique" json:"test_case_id"`
	TestCase       *TestCase      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestCaseID;references:ID" json:"test_case,omitempty"`
	AddedMethod    AddedMethod    `gorm:"column:added_method;not null;default:'manual'" json:"added_method"`
	Priority       *int           `gorm:"column:priority" json:"priority,omitempty"`
	AssignedTo     *uuid.UUID     `gorm:"type:uuid" json:"assigned_to,omitempty"`
	TargetCycle    *string        `gorm:"column:target_cycle" json:"target_cycle,omitempty"`
	EffortHours    *float64       `gorm:"column:effort_hours" json:"effort_hours,omitempty"`
	ExecutionOrder *int           `gorm:"column:execution_order" json:"execution_order,omitempty"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlanCaseEntry) TableName() string { return "plan_case_entry" }
