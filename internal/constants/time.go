package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat labels history buckets, e.g. "January 2024"
	MonthFormat = "January 2006"

	// ElegantDateFormat is used for entry headings, e.g. "Wednesday, Jan 3, 2024"
	ElegantDateFormat = "Monday, Jan 2, 2006"

	// ShortDateFormat is used in compact listings, e.g. "Jan 3, 2024"
	ShortDateFormat = "Jan 2, 2006"
)
