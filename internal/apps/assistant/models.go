package assistant

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Well-known report types. The column is free-form so clients can
// introduce new types without a migration.
const (
	ReportWeeklySummary   = "WEEKLY_SUMMARY"
	ReportMoodAnalysis    = "MOOD_ANALYSIS"
	ReportJournalAnalysis = "JOURNAL_ANALYSIS"
)

type AiReport struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_reports_user_type;index:idx_reports_user_created" json:"user_id"`
	ReportType string         `gorm:"type:varchar(50);not null;index:idx_reports_user_type" json:"report_type"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Metadata   datatypes.JSON `json:"metadata"`
	PromptUsed string         `gorm:"type:text" json:"-"`
	ModelUsed  string         `gorm:"type:varchar(50)" json:"model_used"`
	TokensUsed int            `json:"tokens_used"`
	CreatedAt  time.Time      `gorm:"index:idx_reports_user_created" json:"created_at"`
}

// --- DTOs ---

type ChatRequest struct {
	Message     string `json:"message"`
	ContextSize int    `json:"context_size"`
}

type ChatMetadata struct {
	Model          string `json:"model"`
	TokensUsed     int    `json:"tokens_used"`
	IsMockResponse bool   `json:"is_mock_response"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

type ChatResponse struct {
	Reply       string       `json:"reply"`
	Summary     string       `json:"summary"`
	Suggestions []string     `json:"suggestions"`
	Metadata    ChatMetadata `json:"metadata"`
}

type ReportRequest struct {
	ReportType    string `json:"report_type"`
	DaysToInclude int    `json:"days_to_include"`
}

type ReportResponse struct {
	ID             string    `json:"id"`
	ReportType     string    `json:"report_type"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	TokensUsed     int       `json:"tokens_used"`
	ModelUsed      string    `json:"model_used"`
	IsMockResponse bool      `json:"is_mock_response"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReportResponse(r *AiReport) ReportResponse {
	return ReportResponse{
		ID:             r.ID.String(),
		ReportType:     r.ReportType,
		Content:        r.Content,
		Summary:        extractSummary(r.Content),
		TokensUsed:     r.TokensUsed,
		ModelUsed:      r.ModelUsed,
		IsMockResponse: strings.Contains(r.ModelUsed, "mock"),
		CreatedAt:      r.CreatedAt,
	}
}

func toReportResponses(reports []AiReport) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, toReportResponse(&reports[i]))
	}
	return out
}
