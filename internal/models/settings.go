package models

// Settings represents application-wide settings
type Settings struct {
	ReminderEnabled bool   `json:"reminder_enabled"` // whether the daily reminder is scheduled
	ReminderTime    string `json:"reminder_time"`    // local time of the reminder, e.g. "20:00"
	Timezone        string `json:"timezone"`         // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	WeekStart       string `json:"week_start"`       // first day of the week, "sunday" or "monday"
}
