package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestSuite is a reusable, non-exclusive grouping of test cases. Suites are
// organizational only: not tied to a layer, a plan, or a cycle.
type TestSuite struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null;index" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TestSuite) TableName() string { return "test_suite" }
