package handlers

import (
	"errors"

	"github.com/goaltrackhq/goaltrack-backend/internal/authctx"
	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	"github.com/goaltrackhq/goaltrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.goalService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMissingGoalFields) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *GoalHandler) ListGoals(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.goalService.ListByOwner(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(goals)
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid goal id",
		})
	}

	if err := h.goalService.Delete(userID, goalID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Goal not found",
			})
		}
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Goal deleted"})
}

// CompleteGoal archives the goal into completed history. A non-repeatable
// goal is consumed by the call; a repeatable one stays active and can be
// completed again.
func (h *GoalHandler) CompleteGoal(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid goal id",
		})
	}

	if _, err := h.goalService.Complete(userID, goalID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Goal not found",
			})
		}
		if errors.Is(err, services.ErrGoalAlreadyCompleted) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Goal completed and moved to completed goals"})
}

func (h *GoalHandler) ListCompletedGoals(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	completed, err := h.goalService.ListCompleted(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(completed)
}

func (h *GoalHandler) DeleteCompletedGoal(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	completedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid completed goal id",
		})
	}

	if err := h.goalService.DeleteCompleted(userID, completedID); err != nil {
		if errors.Is(err, services.ErrCompletedGoalNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Completed goal not found",
			})
		}
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Completed goal deleted"})
}

func (h *GoalHandler) DeleteAllCompletedGoals(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	deleted, err := h.goalService.DeleteAllCompleted(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"message": "All completed goals deleted successfully",
		"deleted": deleted,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
