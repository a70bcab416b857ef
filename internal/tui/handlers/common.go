package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/state"
	"github.com/maimon495/gratitude/internal/utils"
)

// InkOptions lists the ink catalogue for a select field.
func InkOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, ink := range models.Inks() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", ink.Name, ink.Description), ink.Code))
	}
	return opts
}

// FontOptions lists the font catalogue for a select field.
func FontOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, f := range models.Fonts() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", f.Name, f.Description), f.Code))
	}
	return opts
}

// NewEntryForm creates the form for writing a day's entry
func NewEntryForm(fm *state.EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("What are you grateful for? (%s)", fm.Day.Format(constants.ElegantDateFormat))).
				CharLimit(4000).
				Value(&fm.Content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("write at least a few words")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Ink").
				Options(InkOptions()...).
				Value(&fm.Ink),
			huh.NewSelect[string]().
				Title("Font").
				Options(FontOptions()...).
				Value(&fm.Font),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewSettingsForm creates a new form for editing settings
func NewSettingsForm(fm *state.SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Daily Reminder").
				Value(&fm.ReminderEnabled),
			huh.NewInput().
				Title("Reminder Time (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as America/New_York, or Local").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Week Starts On").
				Options(
					huh.NewOption("Sunday", "sunday"),
					huh.NewOption("Monday", "monday"),
				).
				Value(&fm.WeekStart),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a generic yes/no form
func NewConfirmationForm(fm *state.ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
