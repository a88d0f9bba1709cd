package services

import (
	"fmt"

	"github.com/goaltrackhq/goaltrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// AdjustPoints applies point_counter += delta in a single UPDATE. Delta may
// be negative and the counter is never clamped.
func (s *UserService) AdjustPoints(userID uuid.UUID, delta int64) (*models.User, error) {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("point_counter", gorm.Expr("point_counter + ?", delta))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}
