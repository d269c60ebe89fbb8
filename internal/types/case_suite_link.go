package types

import (
	"time"

	"github.com/google/uuid"
)

// AddedMethod records how a membership record came to exist, for both suite
// links and plan entries. Closed set: reporting groups by it.
type AddedMethod string

const (
	AddedManual          AddedMethod = "manual"
	AddedFromDevelopment AddedMethod = "derived_from_development_item"
	AddedFromProcess     AddedMethod = "derived_from_process"
	AddedImported        AddedMethod = "imported"
	AddedCloned          AddedMethod = "cloned"
)

// CaseSuiteLink is the junction between test cases and suites. The composite
// unique index is the storage-level guarantee that a pair is recorded once;
// concurrent duplicate inserts lose at the constraint, not in application code.
type CaseSuiteLink struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TestCaseID  uuid.UUID   `gorm:"type:uuid;not null;index:idx_case_suite,unique" json:"test_case_id"`
	TestCase    *TestCase   `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestCaseID;references:ID" json:"test_case,omitempty"`
	SuiteID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_case_suite,unique" json:"suite_id"`
	Suite       *TestSuite  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SuiteID;references:ID" json:"suite,omitempty"`
	AddedMethod AddedMethod `gorm:"column:added_method;not null;default:'manual'" json:"added_method"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (CaseSuiteLink) TableName() string { return "case_suite_link" }
