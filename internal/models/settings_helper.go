package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maimon495/gratitude/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingReminderEnabled:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_enabled: %w", err)
			}
			settings.ReminderEnabled = enabled
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWeekStart:
			settings.WeekStart = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingReminderEnabled: strconv.FormatBool(settings.ReminderEnabled),
		constants.SettingReminderTime:    settings.ReminderTime,
		constants.SettingTimezone:        settings.Timezone,
		constants.SettingWeekStart:       settings.WeekStart,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.ReminderTime == "" {
		settings.ReminderTime = constants.DefaultReminderTime
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.WeekStart == "" {
		settings.WeekStart = constants.DefaultWeekStart
	}
}

// ParseWeekStart maps a week start setting to a weekday. Only Sunday and
// Monday are accepted.
func ParseWeekStart(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week start %q: expected sunday or monday", value)
	}
}

// ParseReminderTime splits an HH:MM reminder time into hour and minute.
func ParseReminderTime(value string) (int, int, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q: expected HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}
