package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "gratitude"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "auth-session"
	DefaultConfigPath  = "~/.config/gratitude/gratitude.db"
	Version            = "v1.0.0"

	// EnvPrefix is prepended to every environment variable the app reads
	EnvPrefix = "GRATITUDE_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "gratitude-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "gratitude-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.maimon495.gratitude"
	TrayExecutablePrefix   = "gratitude-tray"

	// Reminder constants
	ReminderIdentifier = "dailyGratitudeReminder"
	ReminderTitle      = "Time for Gratitude"
	ReminderBody       = "Take a moment to reflect on something good that happened today."

	// DefaultDisplayName is shown for signed-in users without a provider display name
	DefaultDisplayName = "Journaler"
)

// Session States
const (
	StateToday SessionState = iota
	StateWeek
	StateOnThisDay
	StateStats
	StateWriting
	StateSearching
	StateConfirmDelete
	StateEditSettings
)

// WriteEntryMsg opens the entry form for Day
type WriteEntryMsg struct {
	Day time.Time
}

// DeleteEntryMsg asks to delete the entry on Day
type DeleteEntryMsg struct {
	Day time.Time
}

// SearchMsg focuses the search box
type SearchMsg struct{}
