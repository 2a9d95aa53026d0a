package moods

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/identity"
)

var (
	ErrMoodNotFound     = errors.New("mood entry not found")
	ErrNotMoodOwner     = errors.New("you can only access your own mood entries")
	ErrInvalidMoodScore = errors.New("mood score must be between 1 and 10")
	ErrInvalidLevel     = errors.New("energy and stress levels must be between 1 and 10")
)

type MoodService struct {
	db *gorm.DB
}

func NewMoodService(db *gorm.DB) *MoodService {
	return &MoodService{db: db}
}

func (s *MoodService) CreateMoodEntry(userID uuid.UUID, req *CreateMoodRequest) (*MoodEntry, error) {
	if req.MoodScore < 1 || req.MoodScore > 10 {
		return nil, ErrInvalidMoodScore
	}
	for _, level := range []*int{req.EnergyLevel, req.StressLevel} {
		if level != nil && (*level < 1 || *level > 10) {
			return nil, ErrInvalidLevel
		}
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	entry := MoodEntry{
		ID:          uuid.New(),
		UserID:      userID,
		MoodScore:   req.MoodScore,
		Notes:       req.Notes,
		Activities:  req.Activities,
		EnergyLevel: req.EnergyLevel,
		StressLevel: req.StressLevel,
		Timestamp:   timestamp,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	slog.Info("created mood entry", "entry_id", entry.ID, "user_id", userID, "score", entry.MoodScore)
	return &entry, nil
}

func (s *MoodService) GetUserMoodEntries(userID uuid.UUID) ([]MoodEntry, error) {
	var entries []MoodEntry
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

func (s *MoodService) GetMoodEntriesByDateRange(userID uuid.UUID, start, end time.Time) ([]MoodEntry, error) {
	var entries []MoodEntry
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("timestamp BETWEEN ? AND ?", start, end).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

// GetAverageMoodScore returns the mean mood score over the range, or
// 0.0 when the range holds no entries.
func (s *MoodService) GetAverageMoodScore(userID uuid.UUID, start, end time.Time) (float64, error) {
	var avg *float64
	err := s.db.Model(&MoodEntry{}).
		Scopes(identity.OwnedBy(userID)).
		Where("timestamp BETWEEN ? AND ?", start, end).
		Select("AVG(mood_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// GetMoodTrends shapes the entries in range into chronological parallel
// series plus summary statistics.
func (s *MoodService) GetMoodTrends(userID uuid.UUID, start, end time.Time) (*TrendsResponse, error) {
	entries, err := s.GetMoodEntriesByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	return buildTrends(entries, start, end), nil
}

func buildTrends(entries []MoodEntry, start, end time.Time) *TrendsResponse {
	// Charting wants chronological order regardless of how the rows
	// came back from storage.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	dates := make([]string, 0, len(entries))
	moodScores := make([]int, 0, len(entries))
	energyLevels := make([]int, 0, len(entries))
	stressLevels := make([]int, 0, len(entries))

	for _, e := range entries {
		dates = append(dates, e.Timestamp.Format("Jan 02"))
		moodScores = append(moodScores, e.MoodScore)
		energyLevels = append(energyLevels, valueOrZero(e.EnergyLevel))
		stressLevels = append(stressLevels, valueOrZero(e.StressLevel))
	}

	return &TrendsResponse{
		Dates:        dates,
		MoodScores:   moodScores,
		EnergyLevels: energyLevels,
		StressLevels: stressLevels,
		Summary:      buildSummary(entries, start, end),
	}
}

func buildSummary(entries []MoodEntry, start, end time.Time) TrendsSummary {
	summary := TrendsSummary{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
	if len(entries) == 0 {
		return summary
	}

	moodSum := 0
	highest := entries[0].MoodScore
	lowest := entries[0].MoodScore
	energySum, energyCount := 0, 0
	stressSum, stressCount := 0, 0

	for _, e := range entries {
		moodSum += e.MoodScore
		if e.MoodScore > highest {
			highest = e.MoodScore
		}
		if e.MoodScore < lowest {
			lowest = e.MoodScore
		}
		// Entries without a level are left out of that average's
		// denominator rather than counted as zero.
		if e.EnergyLevel != nil {
			energySum += *e.EnergyLevel
			energyCount++
		}
		if e.StressLevel != nil {
			stressSum += *e.StressLevel
			stressCount++
		}
	}

	summary.AverageMood = round2(float64(moodSum) / float64(len(entries)))
	if energyCount > 0 {
		summary.AverageEnergy = round2(float64(energySum) / float64(energyCount))
	}
	if stressCount > 0 {
		summary.AverageStress = round2(float64(stressSum) / float64(stressCount))
	}
	summary.TotalEntries = len(entries)
	summary.HighestMood = highest
	summary.LowestMood = lowest

	return summary
}

func (s *MoodService) DeleteMoodEntry(userID, entryID uuid.UUID) error {
	var entry MoodEntry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMoodNotFound
		}
		return err
	}
	if entry.UserID != userID {
		return ErrNotMoodOwner
	}

	if err := s.db.Delete(&entry).Error; err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	slog.Info("deleted mood entry", "entry_id", entryID, "user_id", userID)
	return nil
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
