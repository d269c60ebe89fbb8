package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Process hierarchy levels. Level 3 nodes are the anchor level that test
// cases resolve to; level 4 nodes are the executable step containers.
const (
	LevelEndToEnd   = 1
	LevelScenario   = 2
	LevelProcess    = 3
	LevelSubProcess = 4
)

type ProcessNode struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string         `gorm:"column:code;not null;index" json:"code"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Level     int            `gorm:"column:level;not null;index" json:"level"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent    *ProcessNode   `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProcessNode) TableName() string { return "process_node" }
