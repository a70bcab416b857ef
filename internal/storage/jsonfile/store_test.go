package jsonfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "journal.json"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	return store
}

func entryOn(id string, day time.Time, content string) models.Entry {
	return models.Entry{
		ID:        id,
		Day:       day,
		Content:   content,
		InkColor:  models.DefaultInk,
		Font:      models.DefaultFont,
		CreatedAt: day.Add(9 * time.Hour),
		UpdatedAt: day.Add(9 * time.Hour),
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if err := store.AddEntry(ctx, entryOn("e1", day, "Warm soup")); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}

	reopened := NewStore(store.GetConfigPath())
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got, err := reopened.GetEntryByDay(ctx, day)
	if err != nil {
		t.Fatalf("GetEntryByDay() error: %v", err)
	}
	if got.ID != "e1" || got.Content != "Warm soup" {
		t.Errorf("GetEntryByDay() = %+v", got)
	}
}

func TestRejectsSecondLiveEntryForDay(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if err := store.AddEntry(ctx, entryOn("e1", day, "first")); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}
	if err := store.AddEntry(ctx, entryOn("e2", day.Add(2*time.Hour), "second")); err == nil {
		t.Error("expected duplicate day to be rejected")
	}
}

func TestDeleteRestore(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	day := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	if err := store.AddEntry(ctx, entryOn("e1", day, "Roses")); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}

	if err := store.DeleteEntry(ctx, "e1"); err != nil {
		t.Fatalf("DeleteEntry() error: %v", err)
	}
	if err := store.DeleteEntry(ctx, "e1"); err != nil {
		t.Errorf("DeleteEntry() twice error = %v", err)
	}
	if _, err := store.GetEntry(ctx, "e1"); !errors.Is(err, apperrors.ErrEntryNotFound) {
		t.Errorf("GetEntry() after delete error = %v", err)
	}

	if err := store.AddEntry(ctx, entryOn("e2", day, "Tulips")); err != nil {
		t.Fatalf("AddEntry() on freed day error: %v", err)
	}
	if err := store.RestoreEntry(ctx, "e1"); !errors.Is(err, apperrors.ErrDayOccupied) {
		t.Errorf("RestoreEntry() onto occupied day error = %v, want ErrDayOccupied", err)
	}

	if err := store.DeleteEntry(ctx, "e2"); err != nil {
		t.Fatalf("DeleteEntry(e2) error: %v", err)
	}
	if err := store.RestoreEntry(ctx, "e1"); err != nil {
		t.Fatalf("RestoreEntry() error: %v", err)
	}

	all, err := store.GetAllEntriesIncludingDeleted(ctx)
	if err != nil {
		t.Fatalf("GetAllEntriesIncludingDeleted() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want 2", len(all))
	}
}

func TestUnloadedStoreErrors(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never.json"))
	if _, err := store.GetAllEntries(context.Background()); err == nil {
		t.Error("expected error from unloaded store")
	}
	if err := store.Load(context.Background()); err == nil {
		t.Error("expected Load() of a missing file to fail")
	}
}
