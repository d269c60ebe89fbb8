package types

import (
	"time"

	"github.com/google/uuid"
)

type ScopeSourceType string

const (
	ScopeSourceProcessAnchor   ScopeSourceType = "process_anchor"
	ScopeSourceScenario        ScopeSourceType = "scenario"
	ScopeSourceRequirement     ScopeSourceType = "requirement"
	ScopeSourceDevelopmentItem ScopeSourceType = "development_item"
)

type CoverageStatus string

const (
	CoverageNotCalculated CoverageStatus = "not_calculated"
	CoverageFull          CoverageStatus = "full"
	CoveragePartial       CoverageStatus = "partial"
	CoverageNone          CoverageStatus = "none"
)

// ScopeDeclaration is a plan-level statement of testing intent. SourceCode
// and SourceTitle are denormalized at write time for display. CoverageStatus
// is a derived cache: the coverage aggregator is its only writer.
type ScopeDeclaration struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_plan_scope_source,unique" json:"plan_id"`
	Plan           *TestPlan       `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	SourceType     ScopeSourceType `gorm:"column:source_type;not null;index:idx_plan_scope_source,unique" json:"source_type"`
	SourceID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_plan_scope_source,unique" json:"source_id"`
	SourceCode     string          `gorm:"column:source_code" json:"source_code"`
	SourceTitle    string          `gorm:"column:source_title" json:"source_title"`
	Priority       int             `gorm:"column:priority;not null;default:0" json:"priority"`
	RiskLevel      string          `gorm:"column:risk_level" json:"risk_level"`
	CoverageStatus CoverageStatus  `gorm:"column:coverage_status;not null;default:'not_calculated'" json:"coverage_status"`
	CreatedAt      time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScopeDeclaration) TableName() string { return "scope_declaration" }
