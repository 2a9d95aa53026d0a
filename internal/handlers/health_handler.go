package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/serenwell/backend/internal/database"
	"github.com/serenwell/backend/internal/dto"
)

type HealthHandler struct {
	pluginCount int
}

func NewHealthHandler(pluginCount int) *HealthHandler {
	return &HealthHandler{pluginCount: pluginCount}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Plugins:   h.pluginCount,
	})
}
