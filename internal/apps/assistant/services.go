package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/apps/journal"
	"github.com/serenwell/backend/internal/apps/moods"
	"github.com/serenwell/backend/internal/config"
	"github.com/serenwell/backend/internal/identity"
	"github.com/serenwell/backend/internal/openai"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrNotReportOwner    = errors.New("you can only access your own reports")
	ErrMessageRequired   = errors.New("message is required")
	ErrReportTypeMissing = errors.New("report type is required")
)

const systemPrompt = "You are an intelligent, helpful AI assistant. " +
	"You can answer ANY question on ANY topic - technology, science, math, history, advice, coding, etc. " +
	"While you're part of SerenWell (a mental wellness app), you can discuss anything the user asks about. " +
	"Always respond in valid JSON format with these fields: " +
	`{ "reply": "your helpful response", "summary": "brief summary (optional, can be empty)", "suggestions": ["helpful tip 1", "tip 2", ...] }. ` +
	"Be conversational, knowledgeable, and friendly. " +
	"For mental health questions, be empathetic and supportive."

const reportSystemPrompt = "You are a compassionate mental wellness AI assistant. " +
	"Generate detailed, actionable reports based on user data."

type AssistantService struct {
	db     *gorm.DB
	client *openai.Client
	cfg    *config.Config
}

func NewAssistantService(db *gorm.DB, client *openai.Client, cfg *config.Config) *AssistantService {
	return &AssistantService{db: db, client: client, cfg: cfg}
}

// Chat sends the user's message to the language model together with a
// context window built from their recent moods and journals, and parses
// the structured reply.
func (s *AssistantService) Chat(ctx context.Context, userID uuid.UUID, req *ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMessageRequired
	}

	contextSize := req.ContextSize
	if contextSize <= 0 {
		contextSize = 5
	}

	start := time.Now()
	userContext := s.buildUserContext(userID, contextSize)

	userPrompt := fmt.Sprintf(
		"%s\n\n## User's Message:\n%s\n\nPlease provide a supportive response in JSON format.",
		userContext, req.Message)

	resp, err := s.client.ChatCompletion(ctx, &openai.ChatRequest{
		Model:       s.cfg.OpenAIModel,
		Temperature: s.cfg.AITemperature,
		MaxTokens:   s.cfg.AIMaxTokens,
		Messages: []openai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}

	chat := parseStructuredReply(resp.Choices[0].Message.Content)
	chat.Metadata = ChatMetadata{
		Model:          resp.Model,
		TokensUsed:     resp.Usage.TotalTokens,
		IsMockResponse: s.client.Mock(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}

	slog.Info("generated AI chat response",
		"user_id", userID,
		"tokens", chat.Metadata.TokensUsed,
		"duration_ms", chat.Metadata.ResponseTimeMs)
	return chat, nil
}

// GenerateReport builds a prompt from the user's recent data, asks the
// model for a report and persists the result.
func (s *AssistantService) GenerateReport(ctx context.Context, userID uuid.UUID, req *ReportRequest) (*ReportResponse, error) {
	if strings.TrimSpace(req.ReportType) == "" {
		return nil, ErrReportTypeMissing
	}

	days := req.DaysToInclude
	if days <= 0 {
		days = 7
	}

	now := time.Now()
	since := now.AddDate(0, 0, -days)

	var recentMoods []moods.MoodEntry
	if err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("timestamp BETWEEN ? AND ?", since, now).
		Order("timestamp DESC").
		Find(&recentMoods).Error; err != nil {
		return nil, err
	}

	var recentJournals []journal.JournalEntry
	if err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("created_at > ?", since).
		Order("created_at DESC").
		Limit(10).
		Find(&recentJournals).Error; err != nil {
		return nil, err
	}

	prompt := buildReportPrompt(req.ReportType, recentMoods, recentJournals, days)

	resp, err := s.client.ChatCompletion(ctx, &openai.ChatRequest{
		Model:       s.cfg.OpenAIModel,
		Temperature: s.cfg.AITemperature,
		MaxTokens:   s.cfg.AIMaxTokens * 2, // reports run longer than chat turns
		Messages: []openai.Message{
			{Role: "system", Content: reportSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	content := resp.Choices[0].Message.Content
	metadata, _ := json.Marshal(map[string]int{"days": days})

	report := AiReport{
		ID:         uuid.New(),
		UserID:     userID,
		ReportType: req.ReportType,
		Content:    content,
		Metadata:   datatypes.JSON(metadata),
		PromptUsed: truncate(prompt, 500) + "...",
		ModelUsed:  resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	slog.Info("generated AI report",
		"report_id", report.ID,
		"user_id", userID,
		"type", report.ReportType,
		"tokens", report.TokensUsed)

	out := toReportResponse(&report)
	out.IsMockResponse = s.client.Mock()
	return &out, nil
}

func (s *AssistantService) GetReports(userID uuid.UUID) ([]AiReport, error) {
	var reports []AiReport
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *AssistantService) GetReportsByType(userID uuid.UUID, reportType string) ([]AiReport, error) {
	var reports []AiReport
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("report_type = ?", strings.ToUpper(reportType)).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *AssistantService) GetReport(userID, reportID uuid.UUID) (*AiReport, error) {
	var report AiReport
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if report.UserID != userID {
		return nil, ErrNotReportOwner
	}
	return &report, nil
}

func (s *AssistantService) DeleteReport(userID, reportID uuid.UUID) error {
	report, err := s.GetReport(userID, reportID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(report).Error; err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	slog.Info("deleted report", "report_id", reportID, "user_id", userID)
	return nil
}

// buildUserContext summarizes the last 7 days of moods and journals
// into a prompt section. contextSize caps the mood entries; journals
// are capped at min(3, contextSize).
func (s *AssistantService) buildUserContext(userID uuid.UUID, contextSize int) string {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	var recentMoods []moods.MoodEntry
	if err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("timestamp BETWEEN ? AND ?", weekAgo, now).
		Order("timestamp DESC").
		Limit(contextSize).
		Find(&recentMoods).Error; err != nil {
		slog.Error("failed to load moods for chat context", "user_id", userID, "error", err)
	}

	journalLimit := contextSize
	if journalLimit > 3 {
		journalLimit = 3
	}
	var recentJournals []journal.JournalEntry
	if err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("created_at > ?", weekAgo).
		Order("created_at DESC").
		Limit(journalLimit).
		Find(&recentJournals).Error; err != nil {
		slog.Error("failed to load journals for chat context", "user_id", userID, "error", err)
	}

	var b strings.Builder
	b.WriteString("## User's Recent Activity\n\n")

	if len(recentMoods) > 0 {
		b.WriteString("### Recent Mood Entries:\n")
		for _, m := range recentMoods {
			notes := ""
			if m.Notes != "" {
				notes = "\"" + m.Notes + "\""
			}
			fmt.Fprintf(&b, "- %s: Mood %d/10, Energy %d/10, Stress %d/10. %s\n",
				m.Timestamp.Format("Jan 02"),
				m.MoodScore, intOrZero(m.EnergyLevel), intOrZero(m.StressLevel), notes)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("### Recent Mood Entries:\nNo recent mood entries.\n\n")
	}

	if len(recentJournals) > 0 {
		b.WriteString("### Recent Journal Entries:\n")
		for _, j := range recentJournals {
			fmt.Fprintf(&b, "- %s: \"%s\" - %s\n",
				j.CreatedAt.Format("Jan 02"), j.Title, excerpt(j.Content, 150))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("### Recent Journal Entries:\nNo recent journal entries.\n\n")
	}

	return b.String()
}

func buildReportPrompt(reportType string, recentMoods []moods.MoodEntry, recentJournals []journal.JournalEntry, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s report for the past %d days.\n\n", reportType, days)

	if len(recentMoods) > 0 {
		sum, highest, lowest := 0, recentMoods[0].MoodScore, recentMoods[0].MoodScore
		for _, m := range recentMoods {
			sum += m.MoodScore
			if m.MoodScore > highest {
				highest = m.MoodScore
			}
			if m.MoodScore < lowest {
				lowest = m.MoodScore
			}
		}
		avg := float64(sum) / float64(len(recentMoods))

		fmt.Fprintf(&b, "## Mood Statistics:\n- Average mood: %.1f/10\n- Highest: %d/10\n- Lowest: %d/10\n- Total entries: %d\n\n",
			avg, highest, lowest, len(recentMoods))

		b.WriteString("## Mood Entries:\n")
		for _, m := range recentMoods {
			fmt.Fprintf(&b, "- %s: %d/10 - %s\n", m.Timestamp.Format("Jan 02"), m.MoodScore, m.Notes)
		}
		b.WriteString("\n")
	}

	if len(recentJournals) > 0 {
		b.WriteString("## Journal Entries:\n")
		for _, j := range recentJournals {
			fmt.Fprintf(&b, "- %s: \"%s\" - %s\n",
				j.CreatedAt.Format("Jan 02"), j.Title, excerpt(j.Content, 200))
		}
		b.WriteString("\n")
	}

	b.WriteString("Please provide:\n" +
		"1. Overall summary of the user's mental wellness trend\n" +
		"2. Key patterns identified\n" +
		"3. Positive highlights to celebrate\n" +
		"4. Areas for improvement\n" +
		"5. Specific, actionable recommendations")

	return b.String()
}

// parseStructuredReply decodes the model's JSON payload, tolerating
// markdown code fences. Anything unparseable falls back to the raw
// text as the reply.
func parseStructuredReply(content string) *ChatResponse {
	jsonContent := content
	if idx := strings.Index(content, "```json"); idx >= 0 {
		jsonContent = content[idx+7:]
		if end := strings.Index(jsonContent, "```"); end >= 0 {
			jsonContent = jsonContent[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		jsonContent = content[idx+3:]
		if end := strings.Index(jsonContent, "```"); end >= 0 {
			jsonContent = jsonContent[:end]
		}
	}

	var parsed struct {
		Reply       string   `json:"reply"`
		Summary     string   `json:"summary"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonContent)), &parsed); err != nil {
		slog.Warn("failed to parse structured AI reply, using raw content", "error", err)
		return &ChatResponse{Reply: content, Suggestions: []string{}}
	}

	reply := parsed.Reply
	if reply == "" {
		reply = content
	}
	suggestions := parsed.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &ChatResponse{Reply: reply, Summary: parsed.Summary, Suggestions: suggestions}
}

// extractSummary pulls the first paragraph of the content, stripping a
// leading markdown header and clamping to 200 characters.
func extractSummary(content string) string {
	if content == "" {
		return ""
	}

	first := strings.TrimSpace(strings.SplitN(content, "\n\n", 2)[0])
	for strings.HasPrefix(first, "#") {
		first = strings.TrimPrefix(first, "#")
	}
	first = strings.TrimSpace(first)

	return excerpt(first, 200)
}

func excerpt(s string, limit int) string {
	if truncated := truncate(s, limit); truncated != s {
		return truncated + "..."
	}
	return s
}

// truncate clamps s to at most limit runes, never splitting a
// multi-byte character.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
