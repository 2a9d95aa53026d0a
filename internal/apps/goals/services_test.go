package goals

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *GoalService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Goal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGoalService(db)
}

func newGoal(t *testing.T, svc *GoalService, userID uuid.UUID, target int, period string) *Goal {
	t.Helper()
	goal, err := svc.CreateGoal(userID, &CreateGoalRequest{
		Title:       "Write in journal",
		Type:        TypeJournaling,
		TargetCount: target,
		Period:      period,
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	return goal
}

// shiftLastCompletion moves the stored completion date back by the
// given number of days, simulating the passage of calendar days.
func shiftLastCompletion(t *testing.T, svc *GoalService, goalID uuid.UUID, days int) {
	t.Helper()
	var goal Goal
	if err := svc.db.First(&goal, "id = ?", goalID).Error; err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if goal.LastCompletionDate == nil {
		t.Fatal("goal has no completion date to shift")
	}
	shifted := goal.LastCompletionDate.AddDate(0, 0, -days)
	if err := svc.db.Model(&goal).Update("last_completion_date", shifted).Error; err != nil {
		t.Fatalf("shift completion date: %v", err)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	tests := []struct {
		name string
		req  CreateGoalRequest
		want error
	}{
		{"empty title", CreateGoalRequest{Title: "  ", Type: TypeCustom, TargetCount: 1, Period: PeriodDaily}, ErrTitleRequired},
		{"unknown type", CreateGoalRequest{Title: "x", Type: "SLEEP", TargetCount: 1, Period: PeriodDaily}, ErrInvalidType},
		{"unknown period", CreateGoalRequest{Title: "x", Type: TypeCustom, TargetCount: 1, Period: "YEARLY"}, ErrInvalidPeriod},
		{"zero target", CreateGoalRequest{Title: "x", Type: TypeCustom, TargetCount: 0, Period: PeriodDaily}, ErrInvalidTarget},
		{"negative target", CreateGoalRequest{Title: "x", Type: TypeCustom, TargetCount: -3, Period: PeriodDaily}, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateGoal(userID, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateGoalDefaults(t *testing.T) {
	svc := testService(t)
	goal := newGoal(t, svc, uuid.New(), 7, PeriodWeekly)

	if goal.CurrentProgress != 0 || goal.CurrentStreak != 0 || goal.LongestStreak != 0 {
		t.Errorf("counters = %d/%d/%d, want all zero",
			goal.CurrentProgress, goal.CurrentStreak, goal.LongestStreak)
	}
	if goal.Status != StatusActive {
		t.Errorf("status = %q, want ACTIVE", goal.Status)
	}
	if goal.LastCompletionDate != nil {
		t.Error("new goal should have no completion date")
	}
	if !sameDay(goal.StartDate, time.Now()) {
		t.Errorf("start date = %v, want today", goal.StartDate)
	}
}

func TestRecordProgressFirstCompletion(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 5, PeriodDaily)

	got, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if got.CurrentProgress != 1 {
		t.Errorf("progress = %d, want 1", got.CurrentProgress)
	}
	if got.CurrentStreak != 1 || got.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", got.CurrentStreak, got.LongestStreak)
	}
	if got.LastCompletionDate == nil || !sameDay(*got.LastCompletionDate, time.Now()) {
		t.Error("last completion date should be today")
	}
	if dates := got.completionDates(); len(dates) != 1 {
		t.Errorf("completion dates = %v, want one entry", dates)
	}
}

func TestRecordProgressSameDayIdempotent(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 5, PeriodDaily)

	first, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("first RecordProgress: %v", err)
	}
	second, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("second RecordProgress: %v", err)
	}

	if second.CurrentProgress != first.CurrentProgress {
		t.Errorf("progress changed on same-day call: %d -> %d",
			first.CurrentProgress, second.CurrentProgress)
	}
	if second.CurrentStreak != first.CurrentStreak {
		t.Errorf("streak changed on same-day call: %d -> %d",
			first.CurrentStreak, second.CurrentStreak)
	}
	if dates := second.completionDates(); len(dates) != 1 {
		t.Errorf("completion dates = %v, want single entry", dates)
	}
}

func TestRecordProgressConsecutiveDay(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 5, PeriodDaily)

	if _, err := svc.RecordProgress(userID, goal.ID); err != nil {
		t.Fatal(err)
	}
	shiftLastCompletion(t, svc, goal.ID, 1) // yesterday

	got, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if got.CurrentStreak != 2 {
		t.Errorf("streak = %d, want 2", got.CurrentStreak)
	}
	if got.CurrentProgress != 2 {
		t.Errorf("progress = %d, want 2", got.CurrentProgress)
	}
}

func TestRecordProgressStreakBroken(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 10, PeriodDaily)

	if _, err := svc.RecordProgress(userID, goal.ID); err != nil {
		t.Fatal(err)
	}
	shiftLastCompletion(t, svc, goal.ID, 3) // gap of 3 days

	got, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if got.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1 after gap", got.CurrentStreak)
	}
	if got.LongestStreak != 1 {
		t.Errorf("longest = %d, want 1", got.LongestStreak)
	}
}

func TestRecordProgressTargetResetsProgress(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 1, PeriodDaily)

	got, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if got.CurrentProgress != 0 {
		t.Errorf("progress = %d, want reset to 0 after hitting target", got.CurrentProgress)
	}
	if got.CurrentStreak != 1 {
		t.Errorf("streak = %d, progress reset must not touch streak", got.CurrentStreak)
	}
}

func TestRecordProgressWeeklyScenario(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 3, PeriodWeekly)

	// Day 1.
	got, err := svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentProgress != 1 || got.CurrentStreak != 1 {
		t.Fatalf("day 1: progress=%d streak=%d, want 1/1", got.CurrentProgress, got.CurrentStreak)
	}

	// Same day again: no change.
	got, err = svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentProgress != 1 || got.CurrentStreak != 1 {
		t.Fatalf("same day: progress=%d streak=%d, want 1/1", got.CurrentProgress, got.CurrentStreak)
	}

	// Day 2.
	shiftLastCompletion(t, svc, goal.ID, 1)
	got, err = svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentProgress != 2 || got.CurrentStreak != 2 {
		t.Fatalf("day 2: progress=%d streak=%d, want 2/2", got.CurrentProgress, got.CurrentStreak)
	}

	// Day 3 hits the target: progress restarts, streak keeps counting.
	shiftLastCompletion(t, svc, goal.ID, 1)
	got, err = svc.RecordProgress(userID, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentProgress != 0 {
		t.Errorf("day 3: progress = %d, want 0", got.CurrentProgress)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 3 {
		t.Errorf("day 3: streak = %d/%d, want 3/3", got.CurrentStreak, got.LongestStreak)
	}
}

func TestRecordProgressOwnership(t *testing.T) {
	svc := testService(t)
	owner := uuid.New()
	goal := newGoal(t, svc, owner, 5, PeriodDaily)

	if _, err := svc.RecordProgress(uuid.New(), goal.ID); !errors.Is(err, ErrNotGoalOwner) {
		t.Errorf("err = %v, want ErrNotGoalOwner", err)
	}
	if _, err := svc.RecordProgress(owner, uuid.New()); !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("err = %v, want ErrGoalNotFound", err)
	}
}

func TestStreakNeverExceedsLongest(t *testing.T) {
	goal := &Goal{}
	today := dateOnly(time.Now())

	// Build up, break, and rebuild a streak purely through the rule.
	days := []int{0, 1, 1, 4, 1, 1, 1, 10, 1}
	var prev *time.Time
	day := today
	for _, gap := range days {
		day = day.AddDate(0, 0, gap)
		applyStreak(goal, prev, day)
		if goal.CurrentStreak > goal.LongestStreak {
			t.Fatalf("currentStreak %d > longestStreak %d", goal.CurrentStreak, goal.LongestStreak)
		}
		d := day
		prev = &d
	}
	if goal.LongestStreak != 4 {
		t.Errorf("longest = %d, want 4", goal.LongestStreak)
	}
	if goal.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2", goal.CurrentStreak)
	}
}

func TestUpdateGoalStatus(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 5, PeriodDaily)

	// Any status is reachable from any status.
	for _, status := range []string{StatusPaused, StatusArchived, StatusActive, StatusCompleted} {
		got, err := svc.UpdateGoalStatus(userID, goal.ID, status)
		if err != nil {
			t.Fatalf("UpdateGoalStatus(%s): %v", status, err)
		}
		if got.Status != status {
			t.Errorf("status = %q, want %q", got.Status, status)
		}
	}

	if _, err := svc.UpdateGoalStatus(userID, goal.ID, "DONE"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateGoalStatus(uuid.New(), goal.ID, StatusPaused); !errors.Is(err, ErrNotGoalOwner) {
		t.Errorf("err = %v, want ErrNotGoalOwner", err)
	}
}

func TestDeleteGoal(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	goal := newGoal(t, svc, userID, 5, PeriodDaily)

	if err := svc.DeleteGoal(uuid.New(), goal.ID); !errors.Is(err, ErrNotGoalOwner) {
		t.Fatalf("err = %v, want ErrNotGoalOwner", err)
	}
	if err := svc.DeleteGoal(userID, goal.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if err := svc.DeleteGoal(userID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("err = %v, want ErrGoalNotFound after delete", err)
	}
}

func TestActiveGoalQueries(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	active := newGoal(t, svc, userID, 5, PeriodDaily)
	paused := newGoal(t, svc, userID, 5, PeriodDaily)
	if _, err := svc.UpdateGoalStatus(userID, paused.ID, StatusPaused); err != nil {
		t.Fatal(err)
	}
	newGoal(t, svc, uuid.New(), 5, PeriodDaily) // other user's goal

	count, err := svc.CountActiveGoals(userID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	goals, err := svc.GetActiveGoals(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 || goals[0].ID != active.ID {
		t.Errorf("active goals = %v, want only %s", goals, active.ID)
	}
}

func TestGetGoalsWithStreakOrdering(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	low := newGoal(t, svc, userID, 10, PeriodDaily)
	high := newGoal(t, svc, userID, 10, PeriodDaily)
	zero := newGoal(t, svc, userID, 10, PeriodDaily)
	_ = zero

	svc.db.Model(&Goal{}).Where("id = ?", low.ID).Update("current_streak", 2)
	svc.db.Model(&Goal{}).Where("id = ?", high.ID).Update("current_streak", 9)

	goals, err := svc.GetGoalsWithStreak(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("got %d goals, want 2 (zero-streak excluded)", len(goals))
	}
	if goals[0].ID != high.ID || goals[1].ID != low.ID {
		t.Error("goals not ordered by streak descending")
	}
}

func TestDaysUntilReset(t *testing.T) {
	tests := []struct {
		name   string
		period string
		today  string
		want   int
	}{
		{"daily", PeriodDaily, "2026-09-01", 1},
		{"weekly from tuesday", PeriodWeekly, "2026-09-01", 6},
		{"weekly from monday", PeriodWeekly, "2026-09-07", 7},
		{"weekly from sunday", PeriodWeekly, "2026-09-06", 1},
		{"monthly mid month", PeriodMonthly, "2026-09-15", 16},
		{"monthly last day", PeriodMonthly, "2026-09-30", 1},
		{"monthly december rollover", PeriodMonthly, "2026-12-15", 17},
		{"unknown period", "YEARLY", "2026-09-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today, err := time.Parse("2006-01-02", tt.today)
			if err != nil {
				t.Fatal(err)
			}
			if got := daysUntilReset(tt.period, today); got != tt.want {
				t.Errorf("daysUntilReset(%s, %s) = %d, want %d", tt.period, tt.today, got, tt.want)
			}
		})
	}
}
