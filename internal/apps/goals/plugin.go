package goals

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/config"
)

type GoalsPlugin struct{}

func New() *GoalsPlugin {
	return &GoalsPlugin{}
}

func (p *GoalsPlugin) ID() string { return "goals" }

func (p *GoalsPlugin) Models() []interface{} {
	return []interface{}{
		&Goal{},
	}
}

func (p *GoalsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewGoalService(db)
	handler := NewGoalHandler(svc)

	router.Post("/goals", handler.CreateGoal)
	router.Get("/goals", handler.GetGoals)
	router.Get("/goals/active", handler.GetActiveGoals)
	router.Get("/goals/count", handler.CountActiveGoals)
	router.Get("/goals/streaks", handler.GetGoalsWithStreak)
	router.Post("/goals/:id/progress", handler.RecordProgress)
	router.Patch("/goals/:id/status", handler.UpdateStatus)
	router.Delete("/goals/:id", handler.DeleteGoal)
}
