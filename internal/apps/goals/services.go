package goals

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/identity"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrNotGoalOwner  = errors.New("you can only access your own goals")
	ErrTitleRequired = errors.New("goal title is required")
	ErrInvalidType   = errors.New("invalid goal type")
	ErrInvalidPeriod = errors.New("invalid goal period")
	ErrInvalidStatus = errors.New("invalid goal status")
	ErrInvalidTarget = errors.New("target count must be at least 1")
)

type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

func (s *GoalService) CreateGoal(userID uuid.UUID, req *CreateGoalRequest) (*Goal, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !contains(GoalTypes, req.Type) {
		return nil, ErrInvalidType
	}
	if !contains(GoalPeriods, req.Period) {
		return nil, ErrInvalidPeriod
	}
	if req.TargetCount < 1 {
		return nil, ErrInvalidTarget
	}

	goal := Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		TargetCount: req.TargetCount,
		Period:      req.Period,
		StartDate:   dateOnly(time.Now()),
		Status:      StatusActive,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("created goal", "goal_id", goal.ID, "user_id", userID, "type", goal.Type)
	return &goal, nil
}

func (s *GoalService) GetUserGoals(userID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) GetActiveGoals(userID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("status = ?", StatusActive).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

// RecordProgress marks today's completion on the goal. The whole
// read-increment-write runs inside one transaction so concurrent calls
// for the same goal cannot produce a lost update. A second call on the
// same calendar day is a no-op returning the unchanged goal.
func (s *GoalService) RecordProgress(userID, goalID uuid.UUID) (*Goal, error) {
	var goal Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&goal, "id = ?", goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return err
		}
		if goal.UserID != userID {
			return ErrNotGoalOwner
		}

		today := dateOnly(time.Now())
		if goal.LastCompletionDate != nil && sameDay(*goal.LastCompletionDate, today) {
			slog.Info("goal already completed today", "goal_id", goalID)
			return nil
		}

		// The streak rule needs the completion date as it was before
		// this call overwrites it.
		previous := goal.LastCompletionDate

		goal.CurrentProgress++
		goal.LastCompletionDate = &today
		goal.addCompletionDate(today)

		applyStreak(&goal, previous, today)

		// Hitting the target restarts the progress counter for the next
		// period. The streak is untouched by this reset.
		if goal.CurrentProgress >= goal.TargetCount {
			goal.CurrentProgress = 0
		}

		return tx.Save(&goal).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("recorded goal progress",
		"goal_id", goalID,
		"progress", goal.CurrentProgress,
		"streak", goal.CurrentStreak)
	return &goal, nil
}

// applyStreak evaluates the calendar-day streak against the completion
// date that preceded today's. Streaks count consecutive days regardless
// of the goal's period.
func applyStreak(goal *Goal, previous *time.Time, today time.Time) {
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case previous == nil:
		goal.CurrentStreak = 1
	case sameDay(*previous, yesterday):
		goal.CurrentStreak++
	case !sameDay(*previous, today):
		goal.CurrentStreak = 1
	}

	if goal.CurrentStreak > goal.LongestStreak {
		goal.LongestStreak = goal.CurrentStreak
	}
}

func (s *GoalService) UpdateGoalStatus(userID, goalID uuid.UUID, status string) (*Goal, error) {
	if !contains(GoalStatuses, status) {
		return nil, ErrInvalidStatus
	}

	goal, err := s.findOwned(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Status = status
	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("failed to update goal status: %w", err)
	}

	slog.Info("updated goal status", "goal_id", goalID, "status", status)
	return goal, nil
}

func (s *GoalService) DeleteGoal(userID, goalID uuid.UUID) error {
	goal, err := s.findOwned(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("deleted goal", "goal_id", goalID, "user_id", userID)
	return nil
}

func (s *GoalService) CountActiveGoals(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&Goal{}).
		Scopes(identity.OwnedBy(userID)).
		Where("status = ?", StatusActive).
		Count(&count).Error
	return count, err
}

func (s *GoalService) GetGoalsWithStreak(userID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("current_streak > 0").
		Order("current_streak DESC").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) findOwned(userID, goalID uuid.UUID) (*Goal, error) {
	var goal Goal
	if err := s.db.First(&goal, "id = ?", goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrNotGoalOwner
	}
	return &goal, nil
}

// dateOnly truncates to midnight UTC so calendar-day comparisons never
// drift across DST boundaries.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// daysUntilReset reports how many days remain until the progress
// counter rolls over: tomorrow for daily goals, the Monday of next week
// for weekly goals, the first of next month for monthly goals.
func daysUntilReset(period string, today time.Time) int {
	day := dateOnly(today)

	var reset time.Time
	switch period {
	case PeriodDaily:
		reset = day.AddDate(0, 0, 1)
	case PeriodWeekly:
		next := day.AddDate(0, 0, 7)
		offset := (int(next.Weekday()) + 6) % 7 // days since Monday
		reset = next.AddDate(0, 0, -offset)
	case PeriodMonthly:
		reset = time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return 0
	}

	return int(reset.Sub(day).Hours() / 24)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
