package types

import (
	"time"

	"github.com/google/uuid"
)

type ExecutionResult string

const (
	ExecutionNotRun  ExecutionResult = "not_run"
	ExecutionPass    ExecutionResult = "pass"
	ExecutionFail    ExecutionResult = "fail"
	ExecutionBlocked ExecutionResult = "blocked"
)

// TestExecution records one run of one test case within one cycle. Seq is a
// bigserial: the latest execution for a case orders by (executed_at, seq), so
// two runs stamped at the same instant fall back to insertion order.
type TestExecution struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Seq        int64           `gorm:"column:seq;autoIncrement;uniqueIndex" json:"seq"`
	TestCaseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"test_case_id"`
	TestCase   *TestCase       `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestCaseID;references:ID" json:"test_case,omitempty"`
	PlanID     *uuid.UUID      `gorm:"type:uuid;index" json:"plan_id,omitempty"`
	Cycle      string          `gorm:"column:cycle" json:"cycle"`
	Result     ExecutionResult `gorm:"column:result;not null;default:'not_run'" json:"result"`
	ExecutedAt time.Time       `gorm:"column:executed_at;not null;index" json:"executed_at"`
	ExecutedBy *uuid.UUID      `gorm:"type:uuid" json:"executed_by,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (TestExecution) TableName() string { return "test_execution" }
