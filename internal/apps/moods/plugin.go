package moods

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/config"
)

type MoodsPlugin struct{}

func New() *MoodsPlugin {
	return &MoodsPlugin{}
}

func (p *MoodsPlugin) ID() string { return "moods" }

func (p *MoodsPlugin) Models() []interface{} {
	return []interface{}{
		&MoodEntry{},
	}
}

func (p *MoodsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewMoodService(db)
	handler := NewMoodHandler(svc)

	router.Post("/moods", handler.CreateMoodEntry)
	router.Get("/moods", handler.GetMoodEntries)
	router.Get("/moods/range", handler.GetMoodEntriesByRange)
	router.Get("/moods/average", handler.GetAverageMood)
	router.Get("/moods/trends", handler.GetMoodTrends)
	router.Delete("/moods/:id", handler.DeleteMoodEntry)
}
