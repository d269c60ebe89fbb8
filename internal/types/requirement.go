package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Requirement struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code              string           `gorm:"column:code;not null;index" json:"code"`
	Title             string           `gorm:"column:title;not null" json:"title"`
	AnchorID          *uuid.UUID       `gorm:"type:uuid;index" json:"anchor_id,omitempty"`
	Anchor            *ProcessNode     `gorm:"foreignKey:AnchorID;references:ID" json:"anchor,omitempty"`
	ProcessStepID     *uuid.UUID       `gorm:"type:uuid;index" json:"process_step_id,omitempty"`
	ProcessStep       *ProcessStep     `gorm:"foreignKey:ProcessStepID;references:ID" json:"process_step,omitempty"`
	DevelopmentItemID *uuid.UUID       `gorm:"type:uuid;index" json:"development_item_id,omitempty"`
	DevelopmentItem   *DevelopmentItem `gorm:"foreignKey:DevelopmentItemID;references:ID" json:"development_item,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Requirement) TableName() string { return "requirement" }
