package state

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/memories"
	"github.com/maimon495/gratitude/internal/tui/components/stats"
	"github.com/maimon495/gratitude/internal/tui/components/today"
	"github.com/maimon495/gratitude/internal/tui/components/week"
	"github.com/maimon495/gratitude/internal/utils"
	"github.com/maimon495/gratitude/internal/validation"
)

// EntryFormModel represents the form model for writing an entry
type EntryFormModel struct {
	Day     time.Time
	Content string
	Ink     string
	Font    string
}

// NewEntryFormModel prefills the form from an existing entry, if any.
func NewEntryFormModel(day time.Time, existing *models.Entry) *EntryFormModel {
	fm := &EntryFormModel{Day: day, Ink: models.DefaultInk, Font: models.DefaultFont}
	if existing != nil {
		fm.Content = existing.Content
		fm.Ink = existing.Ink().Code
		fm.Font = existing.Typeface().Code
	}
	return fm
}

// SettingsFormModel represents the form model for settings
type SettingsFormModel struct {
	ReminderEnabled bool
	ReminderTime    string
	Timezone        string
	WeekStart       string
}

// ConfirmationFormModel represents a yes/no question
type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

// SettingsStore reads and applies settings, rescheduling reminders as needed.
type SettingsStore interface {
	Settings(ctx context.Context) (models.Settings, error)
	ApplySettings(ctx context.Context, s models.Settings) error
}

// Reminder is the part of the reminder gate the TUI displays.
type Reminder interface {
	Enabled() bool
	Time() (int, int)
}

// Model represents the shared state for the TUI
type Model struct {
	Ctx                 context.Context
	Journal             *journal.Journal
	Auth                *auth.Service
	Reminder            Reminder
	SettingsStore       SettingsStore
	State               constants.SessionState
	PreviousState       constants.SessionState
	Keys                KeyMap
	Help                help.Model
	TodayModel          today.Model
	WeekModel           week.Model
	MemoriesModel       memories.Model
	StatsModel          stats.Model
	Search              textinput.Model
	Query               string
	Form                *huh.Form
	EntryForm           *EntryFormModel
	SettingsForm        *SettingsFormModel
	ConfirmationForm    *ConfirmationFormModel
	DayToDelete         time.Time
	Quitting            bool
	Width               int
	Height              int
	ValidationWarning   string                // Validation warning message to display
	ValidationConflicts []validation.Conflict // Detailed conflict information
	FormError           string                // Error message to display for form operations
	StatusMessage       string
}

// New creates a new state Model
func New(ctx context.Context, j *journal.Journal, a *auth.Service, r Reminder, ss SettingsStore) Model {
	search := textinput.New()
	search.Placeholder = "search entries"
	search.Prompt = "/ "
	search.CharLimit = 120

	m := Model{
		Ctx:           ctx,
		Journal:       j,
		Auth:          a,
		Reminder:      r,
		SettingsStore: ss,
		State:         constants.StateToday,
		Keys:          DefaultKeyMap(),
		Help:          help.New(),
		TodayModel:    today.New(0, 0),
		WeekModel:     week.New(0, 0),
		MemoriesModel: memories.New(0, 0),
		StatsModel:    stats.New(0, 0),
		Search:        search,
	}
	m.Refresh()
	return m
}

// Refresh pulls every view from the journal.
func (m *Model) Refresh() {
	now := m.Journal.Now()
	snap := m.Journal.Snapshot()

	m.TodayModel.SetEntry(snap.Today, utils.StartOfDay(now), snap.CurrentStreak)
	m.WeekModel.SetWeeks(m.Journal.Weeks(m.Query), m.Query, now)
	m.MemoriesModel.SetEntries(m.Journal.OnThisDay(), now)
	m.StatsModel.SetStats(m.Journal.Stats())
	m.StatsModel.SetReminder(m.reminderStatus())
	m.RefreshAccount()
	m.UpdateValidationStatus()
}

// RefreshAccount updates the signed-in user shown on the stats tab.
func (m *Model) RefreshAccount() {
	if m.Auth == nil {
		m.StatsModel.SetAccount(nil)
		return
	}
	m.StatsModel.SetAccount(m.Auth.CurrentUser())
}

func (m *Model) reminderStatus() string {
	if m.Reminder == nil {
		return ""
	}
	if !m.Reminder.Enabled() {
		return "off"
	}
	h, min := m.Reminder.Time()
	return fmt.Sprintf("daily at %02d:%02d", h, min)
}

// EntryFor returns the live entry for day, or nil.
func (m *Model) EntryFor(day time.Time) *models.Entry {
	if e, ok := m.Journal.EntryForDay(day); ok {
		return &e
	}
	return nil
}
