// Package journal derives streaks, memories and week pages from entries and
// owns the in-memory entry list.
package journal

import (
	"sort"
	"time"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/utils"
)

// Week is one page of the weekly journal. Days[i] is Start plus i days and
// is nil when nothing was written that day.
type Week struct {
	Start time.Time
	Days  [7]*models.Entry
}

// Count returns how many days of the week have an entry.
func (w Week) Count() int {
	n := 0
	for _, d := range w.Days {
		if d != nil {
			n++
		}
	}
	return n
}

// Month is a history bucket such as "January 2024".
type Month struct {
	Label   string
	Entries []models.Entry
}

// Stats summarises the journal.
type Stats struct {
	TotalEntries  int
	CurrentStreak int
	LongestStreak int
	FirstDay      time.Time // zero when the journal is empty
	InkCounts     map[string]int
	FontCounts    map[string]int
}

// preferred reports whether a should win over b when both claim the same day:
// the later CreatedAt wins, then the greater ID.
func preferred(a, b models.Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func byDayDescending(entries []models.Entry) []models.Entry {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utils.DaysBetween(sorted[j].Day, sorted[i].Day) > 0
	})
	return sorted
}

// TodaysEntry returns the entry written for now's calendar day.
func TodaysEntry(entries []models.Entry, now time.Time) (models.Entry, bool) {
	var best models.Entry
	found := false
	for _, e := range entries {
		if !utils.SameDay(e.Day, now) {
			continue
		}
		if !found || preferred(e, best) {
			best = e
			found = true
		}
	}
	return best, found
}

// OnThisDay returns entries from other years sharing today's month and day,
// most recent first.
func OnThisDay(entries []models.Entry, now time.Time) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if e.Day.Month() == now.Month() && e.Day.Day() == now.Day() && e.Day.Year() != now.Year() {
			out = append(out, e)
		}
	}
	return byDayDescending(out)
}

// CurrentStreak counts consecutive days ending today, or ending yesterday
// when today has no entry yet.
func CurrentStreak(entries []models.Entry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	sorted := byDayDescending(entries)

	cursor := utils.StartOfDay(now)
	if _, ok := TodaysEntry(entries, now); !ok {
		cursor = utils.AddDays(cursor, -1)
	}

	streak := 0
	for _, e := range sorted {
		switch diff := utils.DaysBetween(e.Day, cursor); {
		case diff == 0:
			streak++
			cursor = utils.AddDays(cursor, -1)
		case diff > 0:
			// entry is before the cursor: the run is broken
			return streak
		default:
			// future entry, or a duplicate of a day already counted
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days in the history.
func LongestStreak(entries []models.Entry) int {
	if len(entries) == 0 {
		return 0
	}

	sorted := byDayDescending(entries)
	// walk oldest to newest
	longest, run := 1, 1
	for i := len(sorted) - 2; i >= 0; i-- {
		switch utils.DaysBetween(sorted[i+1].Day, sorted[i].Day) {
		case 0:
		case 1:
			run++
			if run > longest {
				longest = run
			}
		default:
			run = 1
		}
	}
	return longest
}

// Search returns entries whose content contains query, ignoring case, most
// recent first. An empty query returns every entry.
func Search(entries []models.Entry, query string) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return byDayDescending(out)
}

// GroupByWeek lays matching entries out on week pages. The week containing
// now is always present; other weeks appear only when they hold a match.
// Pages are ordered most recent first.
func GroupByWeek(entries []models.Entry, now time.Time, weekStart time.Weekday, query string) []Week {
	current := utils.StartOfWeek(now, weekStart)
	pages := map[string]*Week{
		utils.DayKey(current): {Start: current},
	}

	for _, e := range entries {
		if !e.Matches(query) {
			continue
		}
		start := utils.StartOfWeek(utils.DayIn(e.Day, now.Location()), weekStart)
		key := utils.DayKey(start)
		page, ok := pages[key]
		if !ok {
			page = &Week{Start: start}
			pages[key] = page
		}

		slot := utils.DaysBetween(start, e.Day)
		if slot < 0 || slot > 6 {
			continue
		}
		entry := e
		if existing := page.Days[slot]; existing == nil || preferred(entry, *existing) {
			page.Days[slot] = &entry
		}
	}

	weeks := make([]Week, 0, len(pages))
	for _, p := range pages {
		weeks = append(weeks, *p)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Start.After(weeks[j].Start)
	})
	return weeks
}

// GroupByMonth buckets matching entries by calendar month, most recent first.
func GroupByMonth(entries []models.Entry, query string) []Month {
	var months []Month
	index := make(map[string]int)
	for _, e := range Search(entries, query) {
		label := e.Day.Format(constants.MonthFormat)
		i, ok := index[label]
		if !ok {
			i = len(months)
			index[label] = i
			months = append(months, Month{Label: label})
		}
		months[i].Entries = append(months[i].Entries, e)
	}
	return months
}

// ComputeStats summarises entries relative to now.
func ComputeStats(entries []models.Entry, now time.Time) Stats {
	stats := Stats{
		TotalEntries:  len(entries),
		CurrentStreak: CurrentStreak(entries, now),
		LongestStreak: LongestStreak(entries),
		InkCounts:     make(map[string]int),
		FontCounts:    make(map[string]int),
	}
	for _, ink := range models.Inks() {
		stats.InkCounts[ink.Code] = 0
	}
	for _, f := range models.Fonts() {
		stats.FontCounts[f.Code] = 0
	}

	for _, e := range entries {
		stats.InkCounts[e.Ink().Code]++
		stats.FontCounts[e.Typeface().Code]++
		if stats.FirstDay.IsZero() || utils.DaysBetween(e.Day, stats.FirstDay) > 0 {
			stats.FirstDay = e.Day
		}
	}
	return stats
}
