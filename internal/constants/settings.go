package constants

const (
	// Settings keys
	SettingReminderEnabled = "reminder_enabled"
	SettingReminderTime    = "reminder_time"
	SettingTimezone        = "timezone"
	SettingWeekStart       = "week_start"

	// Default Settings Values
	DefaultReminderEnabled = false
	DefaultReminderTime    = "20:00"
	DefaultTimezone        = "Local" // Use system local timezone by default
	DefaultWeekStart       = "sunday"
)
