package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenwell/backend/internal/identity"
)

var (
	ErrJournalNotFound = errors.New("journal entry not found")
	ErrNotJournalOwner = errors.New("you can only access your own journal entries")
	ErrTitleRequired   = errors.New("journal title is required")
	ErrContentRequired = errors.New("journal content is required")
	ErrTitleTooLong    = errors.New("journal title must be at most 200 characters")
)

type JournalService struct {
	db *gorm.DB
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{db: db}
}

func (s *JournalService) CreateEntry(userID uuid.UUID, req *JournalEntryRequest) (*JournalEntry, error) {
	if err := validateEntry(req); err != nil {
		return nil, err
	}

	entry := JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Tags:      req.Tags,
		IsPrivate: true,
	}
	if req.IsFavorite != nil {
		entry.IsFavorite = *req.IsFavorite
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	slog.Info("created journal entry", "entry_id", entry.ID, "user_id", userID)
	return &entry, nil
}

func (s *JournalService) GetUserEntries(userID uuid.UUID) ([]JournalEntry, error) {
	var entries []JournalEntry
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *JournalService) GetEntry(userID, entryID uuid.UUID) (*JournalEntry, error) {
	return s.findOwned(userID, entryID)
}

// UpdateEntry overwrites title, content and tags; the favorite and
// private flags only change when the request carries them.
func (s *JournalService) UpdateEntry(userID, entryID uuid.UUID, req *JournalEntryRequest) (*JournalEntry, error) {
	if err := validateEntry(req); err != nil {
		return nil, err
	}

	entry, err := s.findOwned(userID, entryID)
	if err != nil {
		return nil, err
	}

	entry.Title = strings.TrimSpace(req.Title)
	entry.Content = req.Content
	entry.Tags = req.Tags
	if req.IsFavorite != nil {
		entry.IsFavorite = *req.IsFavorite
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	slog.Info("updated journal entry", "entry_id", entryID, "user_id", userID)
	return entry, nil
}

func (s *JournalService) DeleteEntry(userID, entryID uuid.UUID) error {
	entry, err := s.findOwned(userID, entryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	slog.Info("deleted journal entry", "entry_id", entryID, "user_id", userID)
	return nil
}

func (s *JournalService) GetFavoriteEntries(userID uuid.UUID) ([]JournalEntry, error) {
	var entries []JournalEntry
	err := s.db.Scopes(identity.OwnedBy(userID)).
		Where("is_favorite = ?", true).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *JournalService) findOwned(userID, entryID uuid.UUID) (*JournalEntry, error) {
	var entry JournalEntry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotJournalOwner
	}
	return &entry, nil
}

func validateEntry(req *JournalEntryRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(req.Content) == "" {
		return ErrContentRequired
	}
	return nil
}
