// Package validation checks stored entries and settings for problems the
// schema cannot rule out on its own.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateDay   ConflictType = "duplicate_day"
	ConflictEmptyContent   ConflictType = "empty_content"
	ConflictUnknownInk     ConflictType = "unknown_ink"
	ConflictUnknownFont    ConflictType = "unknown_font"
	ConflictFutureDay      ConflictType = "future_day"
	ConflictInvalidSetting ConflictType = "invalid_setting"
)

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Day         string   // YYYY-MM-DD, when the problem belongs to a day
	EntryIDs    []string // entries that --fix would soft delete
}

// Fixable reports whether doctor can repair the conflict by deleting entries.
func (c Conflict) Fixable() bool {
	return len(c.EntryIDs) > 0
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends other's conflicts.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator validates entries and settings
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks live entries. Deleted entries are ignored.
func (v *Validator) ValidateEntries(entries []models.Entry, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byDay := make(map[string][]models.Entry)
	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		key := utils.DayKey(e.Day)
		byDay[key] = append(byDay[key], e)

		if strings.TrimSpace(e.Content) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyContent,
				Description: fmt.Sprintf("Entry %s on %s has no content", e.ID, key),
				Day:         key,
				EntryIDs:    []string{e.ID},
			})
		}
		if e.InkColor != "" && !models.IsKnownInk(e.InkColor) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownInk,
				Description: fmt.Sprintf("Entry on %s uses unknown ink %q (shown as %s)", key, e.InkColor, models.DefaultInk),
				Day:         key,
			})
		}
		if e.Font != "" && !models.IsKnownFont(e.Font) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownFont,
				Description: fmt.Sprintf("Entry on %s uses unknown font %q (shown as %s)", key, e.Font, models.DefaultFont),
				Day:         key,
			})
		}
		if utils.DaysBetween(now, e.Day) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureDay,
				Description: fmt.Sprintf("Entry %s is dated in the future (%s)", e.ID, key),
				Day:         key,
			})
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		group := byDay[day]
		if len(group) < 2 {
			continue
		}
		keep, _ := journal.TodaysEntry(group, group[0].Day)
		var extra []string
		for _, e := range group {
			if e.ID != keep.ID {
				extra = append(extra, e.ID)
			}
		}
		sort.Strings(extra)
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateDay,
			Description: fmt.Sprintf("%d live entries on %s (keeping %s)", len(group), day, keep.ID),
			Day:         day,
			EntryIDs:    extra,
		})
	}

	return result
}

// ValidateSettings checks persisted settings values.
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if !utils.ValidateTimeFormat(s.ReminderTime) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidSetting,
			Description: fmt.Sprintf("Reminder time %q is not HH:MM", s.ReminderTime),
		})
	}
	if !utils.ValidateTimezone(s.Timezone) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidSetting,
			Description: fmt.Sprintf("Timezone %q is not recognised", s.Timezone),
		})
	}
	if _, err := models.ParseWeekStart(s.WeekStart); err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidSetting,
			Description: err.Error(),
		})
	}

	return result
}
