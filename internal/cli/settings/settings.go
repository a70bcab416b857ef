package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/reminder"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Reminder  *bool   `help:"Enable or disable the daily reminder."`
	Time      *string `help:"Reminder time (HH:MM)."`
	Timezone  *string `help:"IANA timezone used to decide which day it is (or 'Local')."`
	WeekStart *string `help:"First day of week pages (sunday or monday)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:         %s\n", settings.Timezone)
		fmt.Printf("  Week Start:       %s\n", settings.WeekStart)
		fmt.Println("\nReminder Settings:")
		fmt.Printf("  Reminder Enabled: %v\n", settings.ReminderEnabled)
		fmt.Printf("  Reminder Time:    %s\n", settings.ReminderTime)
		return nil
	}

	updated := false
	if c.Reminder != nil {
		settings.ReminderEnabled = *c.Reminder
		updated = true
	}
	if c.Time != nil {
		settings.ReminderTime = strings.TrimSpace(*c.Time)
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = strings.TrimSpace(*c.Timezone)
		updated = true
	}
	if c.WeekStart != nil {
		settings.WeekStart = strings.ToLower(strings.TrimSpace(*c.WeekStart))
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.ApplySettings(bg, settings); err != nil {
		if reminder.IsDenied(err) {
			return fmt.Errorf("reminders could not be enabled: the notification tray is not reachable")
		}
		return err
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
