package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletedGoal is an immutable snapshot taken when a goal is completed.
// It carries its own id and no reference to the source goal, so deleting
// active goals never touches history. ExecutionDate is the completion
// instant in unix milliseconds.
type CompletedGoal struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Points        float64   `gorm:"not null" json:"points"`
	Mulct         float64   `gorm:"not null" json:"mulct"`
	Deadline      string    `gorm:"size:255;not null" json:"deadline"`
	Repeatable    bool      `gorm:"not null;default:false" json:"repeatable"`
	ExecutionDate int64     `gorm:"not null" json:"executionDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (g *CompletedGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
