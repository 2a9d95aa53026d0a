package assistant

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/config"
	"github.com/serenwell/backend/internal/openai"
)

type AssistantPlugin struct{}

func New() *AssistantPlugin {
	return &AssistantPlugin{}
}

func (p *AssistantPlugin) ID() string { return "assistant" }

func (p *AssistantPlugin) Models() []interface{} {
	return []interface{}{
		&AiReport{},
	}
}

func (p *AssistantPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	client := openai.NewClient(cfg)
	svc := NewAssistantService(db, client, cfg)
	handler := NewAssistantHandler(svc)

	router.Post("/ai/chat", handler.Chat)
	router.Post("/ai/reports", handler.GenerateReport)

	router.Get("/reports", handler.GetReports)
	router.Get("/reports/type/:reportType", handler.GetReportsByType)
	router.Get("/reports/:id", handler.GetReport)
	router.Get("/reports/:id/download", handler.DownloadReport)
	router.Delete("/reports/:id", handler.DeleteReport)
}
