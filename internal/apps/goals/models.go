package goals

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeMoodTracking = "MOOD_TRACKING"
	TypeJournaling   = "JOURNALING"
	TypeAIChat       = "AI_CHAT"
	TypeCustom       = "CUSTOM"

	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"

	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusPaused    = "PAUSED"
	StatusArchived  = "ARCHIVED"
)

var (
	GoalTypes    = []string{TypeMoodTracking, TypeJournaling, TypeAIChat, TypeCustom}
	GoalPeriods  = []string{PeriodDaily, PeriodWeekly, PeriodMonthly}
	GoalStatuses = []string{StatusActive, StatusCompleted, StatusPaused, StatusArchived}
)

type Goal struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title              string         `gorm:"type:varchar(255);not null" json:"title"`
	Description        string         `gorm:"type:varchar(1000)" json:"description"`
	Type               string         `gorm:"type:varchar(20);not null" json:"type"`
	TargetCount        int            `gorm:"not null" json:"target_count"`
	Period             string         `gorm:"type:varchar(10);not null" json:"period"`
	CurrentProgress    int            `gorm:"default:0" json:"current_progress"`
	CurrentStreak      int            `gorm:"default:0" json:"current_streak"`
	LongestStreak      int            `gorm:"default:0" json:"longest_streak"`
	StartDate          time.Time      `json:"start_date"`
	LastCompletionDate *time.Time     `json:"last_completion_date"`
	Status             string         `gorm:"type:varchar(10);not null;default:ACTIVE;index" json:"status"`
	CompletionDates    datatypes.JSON `json:"completion_dates"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// completionDates decodes the stored JSON array of ISO dates. A nil or
// malformed column reads as an empty set.
func (g *Goal) completionDates() []string {
	var dates []string
	if len(g.CompletionDates) > 0 {
		_ = json.Unmarshal(g.CompletionDates, &dates)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates
}

func (g *Goal) addCompletionDate(day time.Time) {
	dates := append(g.completionDates(), day.Format("2006-01-02"))
	raw, err := json.Marshal(dates)
	if err != nil {
		return
	}
	g.CompletionDates = datatypes.JSON(raw)
}

// --- DTOs ---

type CreateGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	TargetCount int    `json:"target_count"`
	Period      string `json:"period"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type GoalResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	TargetCount        int      `json:"target_count"`
	Period             string   `json:"period"`
	CurrentProgress    int      `json:"current_progress"`
	CurrentStreak      int      `json:"current_streak"`
	LongestStreak      int      `json:"longest_streak"`
	StartDate          string   `json:"start_date"`
	LastCompletionDate *string  `json:"last_completion_date"`
	Status             string   `json:"status"`
	CompletionDates    []string `json:"completion_dates"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Derived, never stored.
	IsCompletedToday   bool    `json:"is_completed_today"`
	ProgressPercentage float64 `json:"progress_percentage"`
	DaysUntilReset     int     `json:"days_until_reset"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func toGoalResponse(g *Goal) GoalResponse {
	today := dateOnly(time.Now())

	var lastCompletion *string
	completedToday := false
	if g.LastCompletionDate != nil {
		s := g.LastCompletionDate.Format("2006-01-02")
		lastCompletion = &s
		completedToday = sameDay(*g.LastCompletionDate, today)
	}

	pct := 0.0
	if g.TargetCount > 0 {
		pct = float64(g.CurrentProgress) / float64(g.TargetCount) * 100
	}

	return GoalResponse{
		ID:                 g.ID.String(),
		Title:              g.Title,
		Description:        g.Description,
		Type:               g.Type,
		TargetCount:        g.TargetCount,
		Period:             g.Period,
		CurrentProgress:    g.CurrentProgress,
		CurrentStreak:      g.CurrentStreak,
		LongestStreak:      g.LongestStreak,
		StartDate:          g.StartDate.Format("2006-01-02"),
		LastCompletionDate: lastCompletion,
		Status:             g.Status,
		CompletionDates:    g.completionDates(),
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
		IsCompletedToday:   completedToday,
		ProgressPercentage: pct,
		DaysUntilReset:     daysUntilReset(g.Period, today),
	}
}

func toGoalResponses(goals []Goal) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, toGoalResponse(&goals[i]))
	}
	return out
}
