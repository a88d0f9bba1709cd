package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns goals and completed-goal history. The password column holds a
// bcrypt hash and is never serialized.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	PointCounter int64     `gorm:"not null;default:0" json:"pointCounter"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
