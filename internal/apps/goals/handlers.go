package goals

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/serenwell/backend/internal/dto"
	"github.com/serenwell/backend/internal/identity"
)

type GoalHandler struct {
	goalService *GoalService
}

func NewGoalHandler(goalService *GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoal handles POST /goals.
func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.goalService.CreateGoal(userID, &req)
	if err != nil {
		return goalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toGoalResponse(goal))
}

// GetGoals handles GET /goals.
func (h *GoalHandler) GetGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(toGoalResponses(goals))
}

// GetActiveGoals handles GET /goals/active.
func (h *GoalHandler) GetActiveGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.goalService.GetActiveGoals(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(toGoalResponses(goals))
}

// RecordProgress handles POST /goals/:id/progress.
func (h *GoalHandler) RecordProgress(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidGoalID(c)
	}

	goal, err := h.goalService.RecordProgress(userID, goalID)
	if err != nil {
		return goalError(c, err)
	}

	return c.JSON(toGoalResponse(goal))
}

// UpdateStatus handles PATCH /goals/:id/status.
func (h *GoalHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidGoalID(c)
	}

	// Status may arrive as a query param or a JSON body.
	status := c.Query("status")
	if status == "" {
		var req UpdateStatusRequest
		if err := c.BodyParser(&req); err == nil {
			status = req.Status
		}
	}

	goal, err := h.goalService.UpdateGoalStatus(userID, goalID, status)
	if err != nil {
		return goalError(c, err)
	}

	return c.JSON(toGoalResponse(goal))
}

// DeleteGoal handles DELETE /goals/:id.
func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidGoalID(c)
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		return goalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CountActiveGoals handles GET /goals/count.
func (h *GoalHandler) CountActiveGoals(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	count, err := h.goalService.CountActiveGoals(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(CountResponse{Count: count})
}

// GetGoalsWithStreak handles GET /goals/streaks.
func (h *GoalHandler) GetGoalsWithStreak(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.goalService.GetGoalsWithStreak(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(toGoalResponses(goals))
}

func goalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrNotGoalOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidTarget):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return internalError(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func invalidGoalID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid goal ID",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Something went wrong",
	})
}
