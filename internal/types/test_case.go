package types

import (
	"time"

	"github.com/google/uuid"
)

type TestLayer string

const (
	TestLayerComponent   TestLayer = "component"
	TestLayerSIT         TestLayer = "sit"
	TestLayerAcceptance  TestLayer = "acceptance"
	TestLayerRegression  TestLayer = "regression"
	TestLayerPerformance TestLayer = "performance"
	TestLayerRehearsal   TestLayer = "rehearsal"
)

type TestCaseSource string

const (
	TestCaseSourceManual          TestCaseSource = "manual"
	TestCaseSourceFromDevelopment TestCaseSource = "generated_from_development_item"
	TestCaseSourceFromProcess     TestCaseSource = "generated_from_process"
)

// TestCase rows are archived, never hard-deleted: ArchivedAt set means the
// case is out of circulation but its execution history stays queryable.
type TestCase struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code              string           `gorm:"column:code;not null;index" json:"code"`
	Title             string           `gorm:"column:title;not null" json:"title"`
	TestLayer         TestLayer        `gorm:"column:test_layer;not null;index" json:"test_layer"`
	AnchorID          *uuid.UUID       `gorm:"type:uuid;index" json:"anchor_id,omitempty"`
	Anchor            *ProcessNode     `gorm:"foreignKey:AnchorID;references:ID" json:"anchor,omitempty"`
	DevelopmentItemID *uuid.UUID       `gorm:"type:uuid;index" json:"development_item_id,omitempty"`
	DevelopmentItem   *DevelopmentItem `gorm:"foreignKey:DevelopmentItemID;references:ID" json:"development_item,omitempty"`
	RequirementID     *uuid.UUID       `gorm:"type:uuid;index" json:"requirement_id,omitempty"`
	Requirement       *Requirement     `gorm:"foreignKey:RequirementID;references:ID" json:"requirement,omitempty"`
	Source            TestCaseSource   `gorm:"column:source;not null;default:'manual'" json:"source"`
	ArchivedAt        *time.Time       `gorm:"column:archived_at;index" json:"archived_at,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (TestCase) TableName() string { return "test_case" }
