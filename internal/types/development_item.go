package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevelopmentItemKind string

const (
	DevelopmentItemCustomBuild   DevelopmentItemKind = "custom_build"
	DevelopmentItemConfiguration DevelopmentItemKind = "configuration"
)

type DevelopmentItem struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code          string              `gorm:"column:code;not null;index" json:"code"`
	Title         string              `gorm:"column:title;not null" json:"title"`
	Kind          DevelopmentItemKind `gorm:"column:kind;not null;default:'custom_build'" json:"kind"`
	RequirementID *uuid.UUID          `gorm:"type:uuid;index" json:"requirement_id,omitempty"`
	CreatedAt     time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"deleted_at,omitempty"`
}

func (DevelopmentItem) TableName() string { return "development_item" }
