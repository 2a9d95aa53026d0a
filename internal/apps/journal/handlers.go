package journal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/serenwell/backend/internal/dto"
	"github.com/serenwell/backend/internal/identity"
)

type JournalHandler struct {
	journalService *JournalService
}

func NewJournalHandler(journalService *JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// CreateEntry handles POST /journals.
func (h *JournalHandler) CreateEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req JournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.journalService.CreateEntry(userID, &req)
	if err != nil {
		return journalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetEntries handles GET /journals.
func (h *JournalHandler) GetEntries(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entries, err := h.journalService.GetUserEntries(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(entries)
}

// GetFavorites handles GET /journals/favorites.
func (h *JournalHandler) GetFavorites(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entries, err := h.journalService.GetFavoriteEntries(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(entries)
}

// GetEntry handles GET /journals/:id.
func (h *JournalHandler) GetEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid journal entry ID")
	}

	entry, err := h.journalService.GetEntry(userID, entryID)
	if err != nil {
		return journalError(c, err)
	}

	return c.JSON(entry)
}

// UpdateEntry handles PUT /journals/:id.
func (h *JournalHandler) UpdateEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid journal entry ID")
	}

	var req JournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.journalService.UpdateEntry(userID, entryID, &req)
	if err != nil {
		return journalError(c, err)
	}

	return c.JSON(entry)
}

// DeleteEntry handles DELETE /journals/:id.
func (h *JournalHandler) DeleteEntry(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid journal entry ID")
	}

	if err := h.journalService.DeleteEntry(userID, entryID); err != nil {
		return journalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func journalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrJournalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrNotJournalOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrContentRequired),
		errors.Is(err, ErrTitleTooLong):
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
