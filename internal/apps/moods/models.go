package moods

import (
	"time"

	"github.com/google/uuid"
)

type MoodEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_moods_user_timestamp" json:"user_id"`
	MoodScore   int       `gorm:"not null" json:"mood_score"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Activities  string    `gorm:"type:varchar(500)" json:"activities"`
	EnergyLevel *int      `json:"energy_level"`
	StressLevel *int      `json:"stress_level"`
	Timestamp   time.Time `gorm:"not null;index:idx_moods_user_timestamp" json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- DTOs ---

type CreateMoodRequest struct {
	MoodScore   int        `json:"mood_score"`
	Notes       string     `json:"notes"`
	Activities  string     `json:"activities"`
	EnergyLevel *int       `json:"energy_level"`
	StressLevel *int       `json:"stress_level"`
	Timestamp   *time.Time `json:"timestamp"`
}

type AverageMoodResponse struct {
	AverageMoodScore float64   `json:"average_mood_score"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
}

// TrendsResponse holds four parallel series sized to the number of
// entries in range, shaped for direct charting on the client.
type TrendsResponse struct {
	Dates        []string      `json:"dates"`
	MoodScores   []int         `json:"mood_scores"`
	EnergyLevels []int         `json:"energy_levels"`
	StressLevels []int         `json:"stress_levels"`
	Summary      TrendsSummary `json:"summary"`
}

type TrendsSummary struct {
	AverageMood   float64 `json:"average_mood"`
	AverageEnergy float64 `json:"average_energy"`
	AverageStress float64 `json:"average_stress"`
	TotalEntries  int     `json:"total_entries"`
	HighestMood   int     `json:"highest_mood"`
	LowestMood    int     `json:"lowest_mood"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}
