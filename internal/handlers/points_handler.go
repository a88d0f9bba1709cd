package handlers

import (
	"errors"
	"fmt"

	"github.com/goaltrackhq/goaltrack-backend/internal/authctx"
	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	"github.com/goaltrackhq/goaltrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PointsHandler struct {
	userService *services.UserService
}

func NewPointsHandler(userService *services.UserService) *PointsHandler {
	return &PointsHandler{userService: userService}
}

// Increment adds to the caller's point counter. The amount must be an
// integral JSON number; anything else fails binding and reports 400.
func (h *PointsHandler) Increment(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.IncrementPointsRequest
	if err := c.BodyParser(&req); err != nil || req.Points == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid increment amount",
		})
	}

	user, err := h.userService.AdjustPoints(userID, *req.Points)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return internalError(c)
	}

	return c.JSON(dto.PointsResponse{
		Message: fmt.Sprintf("Point counter incremented by %d", *req.Points),
		User:    *user,
	})
}

// Decrement subtracts the mulct from the caller's point counter. The
// counter may go negative; it is never clamped.
func (h *PointsHandler) Decrement(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.DecrementPointsRequest
	if err := c.BodyParser(&req); err != nil || req.Mulct == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid decrement amount",
		})
	}

	user, err := h.userService.AdjustPoints(userID, -*req.Mulct)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return internalError(c)
	}

	return c.JSON(dto.PointsResponse{
		Message: fmt.Sprintf("Point counter decremented by %d", *req.Mulct),
		User:    *user,
	})
}
