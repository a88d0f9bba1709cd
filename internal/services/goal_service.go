package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	"github.com/goaltrackhq/goaltrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound          = errors.New("goal not found")
	ErrCompletedGoalNotFound = errors.New("completed goal not found")
	ErrGoalAlreadyCompleted  = errors.New("goal was already completed")
	ErrMissingGoalFields     = errors.New("description, points, mulct and deadline are required")
)

type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// Create persists a new goal for the given owner. Beyond required-field
// presence there is no validation: the deadline stays an opaque string and
// point values may carry any sign.
func (s *GoalService) Create(userID uuid.UUID, req *dto.CreateGoalRequest) (*models.Goal, error) {
	if req.Description == "" || req.Points == nil || req.Mulct == nil || req.Deadline == "" {
		return nil, ErrMissingGoalFields
	}

	goal := models.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Description:   req.Description,
		Points:        *req.Points,
		Mulct:         *req.Mulct,
		Deadline:      req.Deadline,
		Repeatable:    req.Repeatable,
		ExecutionDate: req.ExecutionDate,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return &goal, nil
}

func (s *GoalService) ListByOwner(userID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) FindByID(userID, goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	return &goal, nil
}

// Delete removes a goal owned by the user. Deletion is not idempotent: a
// second call for the same id reports not found.
func (s *GoalService) Delete(userID, goalID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Complete archives a goal into completed history and, for non-repeatable
// goals, removes the source. Snapshot insert and conditional delete run in
// one transaction so there is no archived-but-still-active halfway state.
//
// Completing a goal does not touch the owner's point counter; callers
// adjust points with an explicit increment or decrement call.
func (s *GoalService) Complete(userID, goalID uuid.UUID) (*models.CompletedGoal, error) {
	var snapshot models.CompletedGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return fmt.Errorf("failed to load goal: %w", err)
		}

		snapshot = models.CompletedGoal{
			ID:            uuid.New(),
			UserID:        goal.UserID,
			Description:   goal.Description,
			Points:        goal.Points,
			Mulct:         goal.Mulct,
			Deadline:      goal.Deadline,
			Repeatable:    goal.Repeatable,
			ExecutionDate: time.Now().UnixMilli(),
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to archive goal: %w", err)
		}

		if !goal.Repeatable {
			result := tx.Where("id = ?", goal.ID).Delete(&models.Goal{})
			if result.Error != nil {
				return fmt.Errorf("failed to remove completed goal: %w", result.Error)
			}
			// Zero rows means a concurrent completion already consumed this
			// goal; roll back so only one snapshot survives.
			if result.RowsAffected == 0 {
				return ErrGoalAlreadyCompleted
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *GoalService) ListCompleted(userID uuid.UUID) ([]models.CompletedGoal, error) {
	var completed []models.CompletedGoal
	if err := s.db.Where("user_id = ?", userID).Find(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to list completed goals: %w", err)
	}
	return completed, nil
}

func (s *GoalService) DeleteCompleted(userID, completedID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", completedID, userID).Delete(&models.CompletedGoal{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete completed goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCompletedGoalNotFound
	}
	return nil
}

// DeleteAllCompleted clears the user's completed history and reports how
// many records were removed. Zero is a success, not an error.
func (s *GoalService) DeleteAllCompleted(userID uuid.UUID) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.CompletedGoal{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete completed goals: %w", result.Error)
	}
	return result.RowsAffected, nil
}
