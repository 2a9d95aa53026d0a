package journal

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/config"
)

type JournalPlugin struct{}

func New() *JournalPlugin {
	return &JournalPlugin{}
}

func (p *JournalPlugin) ID() string { return "journal" }

func (p *JournalPlugin) Models() []interface{} {
	return []interface{}{
		&JournalEntry{},
	}
}

func (p *JournalPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewJournalService(db)
	handler := NewJournalHandler(svc)

	router.Post("/journals", handler.CreateEntry)
	router.Get("/journals", handler.GetEntries)
	router.Get("/journals/favorites", handler.GetFavorites)
	router.Get("/journals/:id", handler.GetEntry)
	router.Put("/journals/:id", handler.UpdateEntry)
	router.Delete("/journals/:id", handler.DeleteEntry)
}
