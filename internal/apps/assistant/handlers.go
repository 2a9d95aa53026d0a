package assistant

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/serenwell/backend/internal/apps/journal"
	"github.com/serenwell/backend/internal/apps/moods"
	"github.com/serenwell/backend/internal/dto"
	"github.com/serenwell/backend/internal/identity"
	"github.com/serenwell/backend/internal/openai"
)

type AssistantHandler struct {
	assistantService *AssistantService
}

func NewAssistantHandler(assistantService *AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat handles POST /ai/chat.
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.assistantService.Chat(c.UserContext(), userID, &req)
	if err != nil {
		return assistantError(c, err)
	}

	return c.JSON(resp)
}

// GenerateReport handles POST /ai/reports.
func (h *AssistantHandler) GenerateReport(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.assistantService.GenerateReport(c.UserContext(), userID, &req)
	if err != nil {
		return assistantError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetReports handles GET /reports.
func (h *AssistantHandler) GetReports(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reports, err := h.assistantService.GetReports(userID)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(toReportResponses(reports))
}

// GetReportsByType handles GET /reports/type/:reportType.
func (h *AssistantHandler) GetReportsByType(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reports, err := h.assistantService.GetReportsByType(userID, c.Params("reportType"))
	if err != nil {
		return internalError(c)
	}

	return c.JSON(toReportResponses(reports))
}

// GetReport handles GET /reports/:id.
func (h *AssistantHandler) GetReport(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.assistantService.GetReport(userID, reportID)
	if err != nil {
		return assistantError(c, err)
	}

	return c.JSON(toReportResponse(report))
}

// DownloadReport handles GET /reports/:id/download, streaming the
// report as a PDF attachment.
func (h *AssistantHandler) DownloadReport(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.assistantService.GetReport(userID, reportID)
	if err != nil {
		return assistantError(c, err)
	}

	var recentMoods []moods.MoodEntry
	if err := h.assistantService.db.Scopes(identity.OwnedBy(userID)).
		Order("timestamp DESC").
		Limit(3).
		Find(&recentMoods).Error; err != nil {
		slog.Error("failed to load moods for PDF export", "user_id", userID, "error", err)
	}

	var recentJournals []journal.JournalEntry
	if err := h.assistantService.db.Scopes(identity.OwnedBy(userID)).
		Order("created_at DESC").
		Limit(3).
		Find(&recentJournals).Error; err != nil {
		slog.Error("failed to load journals for PDF export", "user_id", userID, "error", err)
	}

	pdfBytes, err := GenerateReportPDF(report, recentMoods, recentJournals)
	if err != nil {
		return internalError(c)
	}

	filename := reportFilename(report)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// DeleteReport handles DELETE /reports/:id.
func (h *AssistantHandler) DeleteReport(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.assistantService.DeleteReport(userID, reportID); err != nil {
		return assistantError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func reportFilename(report *AiReport) string {
	reportType := strings.ReplaceAll(strings.ToLower(report.ReportType), "_", "-")
	return fmt.Sprintf("serenwell-%s-%s-report.pdf", reportType, report.CreatedAt.Format("2006-01-02"))
}

func assistantError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrNotReportOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrMessageRequired), errors.Is(err, ErrReportTypeMissing):
		return badRequest(c, err.Error())
	case errors.Is(err, openai.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, openai.ErrInvalidAPIKey), errors.Is(err, openai.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "AI service temporarily unavailable",
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
