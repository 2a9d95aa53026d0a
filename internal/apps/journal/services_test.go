package journal

import (
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *JournalService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&JournalEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewJournalService(db)
}

func boolPtr(v bool) *bool { return &v }

func TestCreateEntryValidation(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	tests := []struct {
		name string
		req  JournalEntryRequest
		want error
	}{
		{"empty title", JournalEntryRequest{Title: " ", Content: "x"}, ErrTitleRequired},
		{"empty content", JournalEntryRequest{Title: "Day one", Content: ""}, ErrContentRequired},
		{"title too long", JournalEntryRequest{Title: strings.Repeat("a", 201), Content: "x"}, ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateEntry(userID, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateEntryDefaults(t *testing.T) {
	svc := testService(t)
	entry, err := svc.CreateEntry(uuid.New(), &JournalEntryRequest{
		Title:   "Morning pages",
		Content: "Slept well, feeling rested.",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.IsFavorite {
		t.Error("new entry should not be a favorite by default")
	}
	if !entry.IsPrivate {
		t.Error("new entry should be private by default")
	}
}

func TestUpdateEntryPartialFlags(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	entry, err := svc.CreateEntry(userID, &JournalEntryRequest{
		Title:      "Draft",
		Content:    "first pass",
		IsFavorite: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Omitting the flags keeps their stored values.
	updated, err := svc.UpdateEntry(userID, entry.ID, &JournalEntryRequest{
		Title:   "Final",
		Content: "second pass",
		Tags:    "writing,review",
	})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.Title != "Final" || updated.Content != "second pass" || updated.Tags != "writing,review" {
		t.Errorf("fields not overwritten: %+v", updated)
	}
	if !updated.IsFavorite {
		t.Error("favorite flag must survive an update that omits it")
	}

	// Carrying the flag flips it.
	updated, err = svc.UpdateEntry(userID, entry.ID, &JournalEntryRequest{
		Title:      "Final",
		Content:    "second pass",
		IsFavorite: boolPtr(false),
		IsPrivate:  boolPtr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsFavorite || updated.IsPrivate {
		t.Errorf("flags = favorite:%v private:%v, want both false", updated.IsFavorite, updated.IsPrivate)
	}
}

func TestEntryOwnership(t *testing.T) {
	svc := testService(t)
	owner := uuid.New()
	entry, err := svc.CreateEntry(owner, &JournalEntryRequest{Title: "Mine", Content: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetEntry(uuid.New(), entry.ID); !errors.Is(err, ErrNotJournalOwner) {
		t.Errorf("GetEntry err = %v, want ErrNotJournalOwner", err)
	}
	if _, err := svc.GetEntry(owner, uuid.New()); !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("GetEntry err = %v, want ErrJournalNotFound", err)
	}
	if err := svc.DeleteEntry(uuid.New(), entry.ID); !errors.Is(err, ErrNotJournalOwner) {
		t.Errorf("DeleteEntry err = %v, want ErrNotJournalOwner", err)
	}
}

func TestGetFavoriteEntries(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()

	fav, err := svc.CreateEntry(userID, &JournalEntryRequest{
		Title: "Keeper", Content: "x", IsFavorite: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateEntry(userID, &JournalEntryRequest{Title: "Plain", Content: "y"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateEntry(uuid.New(), &JournalEntryRequest{
		Title: "Other user", Content: "z", IsFavorite: boolPtr(true),
	}); err != nil {
		t.Fatal(err)
	}

	favorites, err := svc.GetFavoriteEntries(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(favorites) != 1 || favorites[0].ID != fav.ID {
		t.Errorf("favorites = %v, want only %s", favorites, fav.ID)
	}
}

func TestDeleteEntry(t *testing.T) {
	svc := testService(t)
	userID := uuid.New()
	entry, err := svc.CreateEntry(userID, &JournalEntryRequest{Title: "Gone", Content: "soon"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteEntry(userID, entry.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := svc.GetEntry(userID, entry.ID); !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("err = %v, want ErrJournalNotFound after delete", err)
	}
}
