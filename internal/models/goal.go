package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is an active task with a point reward and a mulct (penalty).
// UserID is set once at creation and never changes. Deadline is an opaque
// client string and is not parsed server-side.
type Goal struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Points        float64   `gorm:"not null" json:"points"`
	Mulct         float64   `gorm:"not null" json:"mulct"`
	Deadline      string    `gorm:"size:255;not null" json:"deadline"`
	Repeatable    bool      `gorm:"not null;default:false" json:"repeatable"`
	ExecutionDate *int64    `json:"executionDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
