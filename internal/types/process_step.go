package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessStep is a fine-grained execution step under a level-4 node.
type ProcessStep struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string         `gorm:"column:code;not null;index" json:"code"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	NodeID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"node_id"`
	Node      *ProcessNode   `gorm:"constraint:OnDelete:CASCADE;foreignKey:NodeID;references:ID" json:"node,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProcessStep) TableName() string { return "process_step" }
