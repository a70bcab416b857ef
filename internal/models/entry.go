package models

import (
	"strings"
	"time"
)

// Entry is a single day's gratitude reflection
type Entry struct {
	ID        string     `json:"id"`
	Day       time.Time  `json:"day"` // local midnight of the calendar day
	Content   string     `json:"content"`
	InkColor  string     `json:"ink_color"`
	Font      string     `json:"font"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the entry has been soft deleted.
func (e Entry) IsDeleted() bool {
	return e.DeletedAt != nil
}

// Ink resolves the entry's ink code against the catalogue.
func (e Entry) Ink() Ink {
	return LookupInk(e.InkColor)
}

// Typeface resolves the entry's font code against the catalogue.
func (e Entry) Typeface() Font {
	return LookupFont(e.Font)
}

// Matches reports whether the entry content contains query, ignoring case.
// An empty query matches every entry.
func (e Entry) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Content), strings.ToLower(query))
}

// Preview returns the first line of the content, cut to at most n runes.
func (e Entry) Preview(n int) string {
	line, _, _ := strings.Cut(e.Content, "\n")
	runes := []rune(line)
	if n > 0 && len(runes) > n {
		return string(runes[:n-1]) + "…"
	}
	return line
}
