package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/serenwell/backend/internal/apps/journal"
	"github.com/serenwell/backend/internal/apps/moods"
	"github.com/serenwell/backend/internal/config"
	"github.com/serenwell/backend/internal/openai"
)

func testService(t *testing.T) *AssistantService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&AiReport{}, &moods.MoodEntry{}, &journal.JournalEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		AIMockMode:    true,
		OpenAIModel:   "gpt-4o-mini",
		AIMaxTokens:   1000,
		AITemperature: 0.7,
	}
	return NewAssistantService(db, openai.NewClient(cfg), cfg)
}

func seedMood(t *testing.T, db *gorm.DB, userID uuid.UUID, score int, daysAgo int) {
	t.Helper()
	energy := 6
	entry := moods.MoodEntry{
		ID:          uuid.New(),
		UserID:      userID,
		MoodScore:   score,
		EnergyLevel: &energy,
		Notes:       "test note",
		Timestamp:   time.Now().AddDate(0, 0, -daysAgo),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatal(err)
	}
}

func seedJournal(t *testing.T, db *gorm.DB, userID uuid.UUID, title string) {
	t.Helper()
	entry := journal.JournalEntry{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Content: strings.Repeat("a day in the life ", 20),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatal(err)
	}
}

func TestChatMockMode(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	seedMood(t, svc.db, userID, 6, 1)

	resp, err := svc.Chat(context.Background(), userID, &ChatRequest{Message: "I feel anxious today"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.Contains(resp.Reply, "anxious") {
		t.Errorf("reply = %q, want anxiety-themed response", resp.Reply)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
	if !resp.Metadata.IsMockResponse {
		t.Error("metadata should mark mock responses")
	}
	if resp.Metadata.Model != "mock-model" {
		t.Errorf("model = %q", resp.Metadata.Model)
	}
	if resp.Metadata.TokensUsed != 250 {
		t.Errorf("tokens = %d, want 250", resp.Metadata.TokensUsed)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Chat(context.Background(), uuid.New(), &ChatRequest{Message: "  "}); !errors.Is(err, ErrMessageRequired) {
		t.Errorf("err = %v, want ErrMessageRequired", err)
	}
}

func TestGenerateReportPersists(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	seedMood(t, svc.db, userID, 7, 1)
	seedMood(t, svc.db, userID, 4, 2)
	seedJournal(t, svc.db, userID, "Tough week")

	resp, err := svc.GenerateReport(context.Background(), userID, &ReportRequest{
		ReportType:    ReportWeeklySummary,
		DaysToInclude: 7,
	})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if resp.Content == "" || resp.Summary == "" {
		t.Error("report content and summary must be populated")
	}
	if !resp.IsMockResponse {
		t.Error("mock mode should be flagged")
	}

	var stored AiReport
	if err := svc.db.First(&stored, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("report not persisted: %v", err)
	}
	if stored.ReportType != ReportWeeklySummary {
		t.Errorf("report type = %q", stored.ReportType)
	}
	if !strings.HasSuffix(stored.PromptUsed, "...") {
		t.Error("stored prompt should be truncated with ellipsis")
	}
	if len(stored.PromptUsed) > 503 {
		t.Errorf("stored prompt length = %d, want at most 503", len(stored.PromptUsed))
	}

	var meta map[string]int
	if err := json.Unmarshal(stored.Metadata, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if meta["days"] != 7 {
		t.Errorf("metadata days = %d, want 7", meta["days"])
	}
}

func TestGenerateReportRequiresType(t *testing.T) {
	svc := testService(t)
	if _, err := svc.GenerateReport(context.Background(), uuid.New(), &ReportRequest{}); !errors.Is(err, ErrReportTypeMissing) {
		t.Errorf("err = %v, want ErrReportTypeMissing", err)
	}
}

func TestReportOwnership(t *testing.T) {
	svc := testService(t)
	owner := uuid.New()

	resp, err := svc.GenerateReport(context.Background(), owner, &ReportRequest{ReportType: ReportMoodAnalysis})
	if err != nil {
		t.Fatal(err)
	}
	reportID, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetReport(uuid.New(), reportID); !errors.Is(err, ErrNotReportOwner) {
		t.Errorf("GetReport err = %v, want ErrNotReportOwner", err)
	}
	if _, err := svc.GetReport(owner, uuid.New()); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("GetReport err = %v, want ErrReportNotFound", err)
	}
	if err := svc.DeleteReport(owner, reportID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := svc.GetReport(owner, reportID); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound after delete", err)
	}
}

func TestGetReportsByTypeUppercases(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	if _, err := svc.GenerateReport(context.Background(), userID, &ReportRequest{ReportType: ReportWeeklySummary}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GenerateReport(context.Background(), userID, &ReportRequest{ReportType: ReportMoodAnalysis}); err != nil {
		t.Fatal(err)
	}

	reports, err := svc.GetReportsByType(userID, "weekly_summary")
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].ReportType != ReportWeeklySummary {
		t.Errorf("reports = %v, want single weekly summary", reports)
	}
}

func TestParseStructuredReply(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		wantReply       string
		wantSuggestions int
	}{
		{
			"plain json",
			`{"reply":"hi there","summary":"greeting","suggestions":["a","b"]}`,
			"hi there", 2,
		},
		{
			"json fenced",
			"Here you go:\n```json\n{\"reply\":\"fenced\",\"summary\":\"\",\"suggestions\":[]}\n```",
			"fenced", 0,
		},
		{
			"bare fence",
			"```\n{\"reply\":\"plain fence\",\"suggestions\":[\"x\"]}\n```",
			"plain fence", 1,
		},
		{
			"not json falls back to raw",
			"I cannot answer in JSON today.",
			"I cannot answer in JSON today.", 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseStructuredReply(tt.content)
			if got.Reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", got.Reply, tt.wantReply)
			}
			if got.Suggestions == nil {
				t.Fatal("suggestions must never be nil")
			}
			if len(got.Suggestions) != tt.wantSuggestions {
				t.Errorf("suggestions = %v, want %d items", got.Suggestions, tt.wantSuggestions)
			}
		})
	}
}

func TestExtractSummary(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"single paragraph", "Just one thought.", "Just one thought."},
		{"first paragraph wins", "Opening line.\n\nSecond paragraph.", "Opening line."},
		{"markdown header stripped", "## Weekly Overview\n\nDetails follow.", "Weekly Overview"},
		{"long content clamped", strings.Repeat("x", 250), strings.Repeat("x", 200) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSummary(tt.content); got != tt.want {
				t.Errorf("extractSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildReportPromptSections(t *testing.T) {
	entries := []moods.MoodEntry{
		{MoodScore: 8, Timestamp: time.Now()},
		{MoodScore: 4, Timestamp: time.Now().AddDate(0, 0, -1)},
	}
	journals := []journal.JournalEntry{
		{Title: "Long walk", Content: strings.Repeat("step ", 60), CreatedAt: time.Now()},
	}

	prompt := buildReportPrompt("WEEKLY_SUMMARY", entries, journals, 7)

	for _, want := range []string{
		"Generate a WEEKLY_SUMMARY report for the past 7 days.",
		"Average mood: 6.0/10",
		"Highest: 8/10",
		"Lowest: 4/10",
		"Total entries: 2",
		"Long walk",
		"actionable recommendations",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Journal excerpts clamp at 200 characters plus ellipsis.
	if !strings.Contains(prompt, "...") {
		t.Error("long journal content should be truncated")
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	// Each rune here is multi-byte, so a byte-index slice at any of
	// these limits would split a character.
	long := strings.Repeat("ü", 40) + strings.Repeat("日", 40)

	for _, limit := range []int{10, 41, 79} {
		got := truncate(long, limit)
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%d) produced invalid UTF-8: %q", limit, got)
		}
		if n := utf8.RuneCountInString(got); n != limit {
			t.Errorf("truncate(%d) kept %d runes", limit, n)
		}
	}

	short := "héllo"
	if got := truncate(short, 10); got != short {
		t.Errorf("truncate below limit = %q, want unchanged", got)
	}

	got := excerpt(long, 5)
	if !utf8.ValidString(got) {
		t.Errorf("excerpt produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt = %q, want ellipsis suffix", got)
	}
	if got := excerpt(short, 10); got != short {
		t.Errorf("excerpt below limit = %q, want unchanged", got)
	}
}

func TestBuildUserContextSurvivesQueryFailure(t *testing.T) {
	// No migration: every query against the missing tables errors.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := &config.Config{AIMockMode: true}
	svc := NewAssistantService(db, openai.NewClient(cfg), cfg)

	got := svc.buildUserContext(uuid.New(), 5)
	if !strings.Contains(got, "No recent mood entries.") {
		t.Errorf("context = %q, want empty-mood placeholder", got)
	}
	if !strings.Contains(got, "No recent journal entries.") {
		t.Errorf("context = %q, want empty-journal placeholder", got)
	}
}
