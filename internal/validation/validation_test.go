package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/maimon495/gratitude/internal/models"
)

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func conflictsOf(result ValidationResult, typ ConflictType) []Conflict {
	var out []Conflict
	for _, c := range result.Conflicts {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func TestValidateEntries_Clean(t *testing.T) {
	entries := []models.Entry{
		{ID: "a", Day: day(1), Content: "tea", InkColor: models.InkBleuPervenche, Font: models.FontCasual},
		{ID: "b", Day: day(2), Content: "walk"},
	}

	result := New().ValidateEntries(entries, now)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateEntries_DuplicateDay(t *testing.T) {
	deleted := now
	entries := []models.Entry{
		{ID: "old", Day: day(3), Content: "first", CreatedAt: day(3).Add(8 * time.Hour)},
		{ID: "new", Day: day(3), Content: "second", CreatedAt: day(3).Add(9 * time.Hour)},
		{ID: "mid", Day: day(3), Content: "third", CreatedAt: day(3).Add(8*time.Hour + 30*time.Minute)},
		{ID: "gone", Day: day(4), Content: "x"},
		{ID: "live", Day: day(4), Content: "y"},
		{ID: "trash", Day: day(4), Content: "z", DeletedAt: &deleted},
	}

	dups := conflictsOf(New().ValidateEntries(entries, now), ConflictDuplicateDay)
	if len(dups) != 2 {
		t.Fatalf("expected 2 duplicate-day conflicts, got %d", len(dups))
	}

	first := dups[0]
	if first.Day != "2024-01-03" {
		t.Errorf("expected conflicts sorted by day, got %s first", first.Day)
	}
	if !strings.Contains(first.Description, "keeping new") {
		t.Errorf("latest CreatedAt should be kept: %s", first.Description)
	}
	if len(first.EntryIDs) != 2 || first.EntryIDs[0] != "mid" || first.EntryIDs[1] != "old" {
		t.Errorf("unexpected entries to remove: %v", first.EntryIDs)
	}
	if !first.Fixable() {
		t.Error("duplicate day should be fixable")
	}

	// equal CreatedAt: the greater ID is kept
	if len(dups[1].EntryIDs) != 1 || dups[1].EntryIDs[0] != "gone" {
		t.Errorf("expected to drop 'gone', got %v", dups[1].EntryIDs)
	}
}

func TestValidateEntries_ContentAndStyle(t *testing.T) {
	entries := []models.Entry{
		{ID: "blank", Day: day(1), Content: "   "},
		{ID: "ink", Day: day(2), Content: "ok", InkColor: "neon_pink"},
		{ID: "font", Day: day(3), Content: "ok", Font: "comic_sans"},
		{ID: "later", Day: day(12), Content: "from the future"},
	}

	result := New().ValidateEntries(entries, now)

	empty := conflictsOf(result, ConflictEmptyContent)
	if len(empty) != 1 || empty[0].EntryIDs[0] != "blank" {
		t.Errorf("expected empty-content conflict for 'blank', got %+v", empty)
	}
	if ink := conflictsOf(result, ConflictUnknownInk); len(ink) != 1 || ink[0].Fixable() {
		t.Errorf("expected one non-fixable unknown ink conflict, got %+v", ink)
	}
	if font := conflictsOf(result, ConflictUnknownFont); len(font) != 1 {
		t.Errorf("expected one unknown font conflict, got %+v", font)
	}
	if future := conflictsOf(result, ConflictFutureDay); len(future) != 1 {
		t.Errorf("expected one future-day conflict, got %+v", future)
	}
	if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:\n") {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings models.Settings
		want     int
	}{
		{"defaults", models.Settings{ReminderTime: "20:00", Timezone: "Local", WeekStart: "sunday"}, 0},
		{"named zone", models.Settings{ReminderTime: "07:30", Timezone: "UTC", WeekStart: "monday"}, 0},
		{"bad time", models.Settings{ReminderTime: "8pm", Timezone: "Local", WeekStart: "sunday"}, 1},
		{"bad zone", models.Settings{ReminderTime: "20:00", Timezone: "Mars/Olympus", WeekStart: "sunday"}, 1},
		{"everything wrong", models.Settings{ReminderTime: "", Timezone: "Nowhere/City", WeekStart: "friday"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateSettings(tt.settings)
			if got := len(result.Conflicts); got != tt.want {
				t.Errorf("expected %d conflicts, got %d: %s", tt.want, got, result.FormatReport())
			}
		})
	}
}

func TestMerge(t *testing.T) {
	var all ValidationResult
	all.Merge(New().ValidateSettings(models.Settings{ReminderTime: "x", Timezone: "Local"}))
	all.Merge(New().ValidateEntries([]models.Entry{{ID: "e", Day: day(1)}}, now))
	if len(all.Conflicts) != 2 {
		t.Errorf("expected 2 merged conflicts, got %d", len(all.Conflicts))
	}
}
