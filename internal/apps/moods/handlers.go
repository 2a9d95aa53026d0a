package moods

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/serenwell/backend/internal/dto"
	"github.com/serenwell/backend/internal/identity"
)

type MoodHandler struct {
	moodService *MoodService
}

func NewMoodHandler(moodService *MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// CreateMoodEntry handles POST /moods.
func (h *MoodHandler) CreateMoodEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateMoodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.moodService.CreateMoodEntry(userID, &req)
	if err != nil {
		return moodError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetMoodEntries handles GET /moods.
func (h *MoodHandler) GetMoodEntries(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entries, err := h.moodService.GetUserMoodEntries(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(entries)
}

// GetMoodEntriesByRange handles GET /moods/range?startDate&endDate.
func (h *MoodHandler) GetMoodEntriesByRange(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	entries, err := h.moodService.GetMoodEntriesByDateRange(userID, start, end)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(entries)
}

// GetAverageMood handles GET /moods/average?startDate&endDate.
func (h *MoodHandler) GetAverageMood(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	avg, err := h.moodService.GetAverageMoodScore(userID, start, end)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(AverageMoodResponse{
		AverageMoodScore: avg,
		StartDate:        start,
		EndDate:          end,
	})
}

// GetMoodTrends handles GET /moods/trends?startDate&endDate.
func (h *MoodHandler) GetMoodTrends(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	trends, err := h.moodService.GetMoodTrends(userID, start, end)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(trends)
}

// DeleteMoodEntry handles DELETE /moods/:id.
func (h *MoodHandler) DeleteMoodEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid mood entry ID")
	}

	if err := h.moodService.DeleteMoodEntry(userID, entryID); err != nil {
		return moodError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseDateRange reads startDate/endDate query params, accepting either
// RFC 3339 timestamps or plain calendar dates. A date-only endDate is
// widened to the end of that day.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, err := parseDateParam(c.Query("startDate"), false)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid or missing startDate")
	}
	end, err := parseDateParam(c.Query("endDate"), true)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid or missing endDate")
	}
	return start, end, nil
}

func parseDateParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func moodError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrMoodNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrNotMoodOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrInvalidMoodScore), errors.Is(err, ErrInvalidLevel):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Something went wrong",
	})
}
