package journal

import (
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_journal_user_created" json:"user_id"`
	Title      string    `gorm:"type:varchar(200);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Tags       string    `gorm:"type:varchar(500)" json:"tags"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	IsPrivate  bool      `gorm:"default:true" json:"is_private"`
	CreatedAt  time.Time `gorm:"index:idx_journal_user_created" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// --- DTOs ---

type JournalEntryRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Tags       string `json:"tags"`
	IsFavorite *bool  `json:"is_favorite"`
	IsPrivate  *bool  `json:"is_private"`
}
