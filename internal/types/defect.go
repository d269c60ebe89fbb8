package types

import (
	"time"

	"github.com/google/uuid"
)

type DefectSeverity string

const (
	DefectCritical DefectSeverity = "critical"
	DefectHigh     DefectSeverity = "high"
	DefectMedium   DefectSeverity = "medium"
	DefectLow      DefectSeverity = "low"
)

type DefectStatus string

const (
	DefectOpen       DefectStatus = "open"
	DefectInProgress DefectStatus = "in_progress"
	DefectResolved   DefectStatus = "resolved"
	DefectClosed     DefectStatus = "closed"
)

type Defect struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Severity    DefectSeverity `gorm:"column:severity;not null;index" json:"severity"`
	Status      DefectStatus   `gorm:"column:status;not null;default:'open';index" json:"status"`
	ExecutionID *uuid.UUID     `gorm:"type:uuid;index" json:"execution_id,omitempty"`
	Execution   *TestExecution `gorm:"foreignKey:ExecutionID;references:ID" json:"execution,omitempty"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Defect) TableName() string { return "defect" }
