// Package sqlrow holds the entry column codec shared by the SQL backends.
package sqlrow

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
)

// EntryColumns is the column list every entry query selects, in scan order.
const EntryColumns = "id, day, content, ink_color, font, created_at, updated_at, deleted_at"

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// FormatDay stores the calendar date only.
func FormatDay(day time.Time) string {
	return day.Format(constants.DateFormat)
}

// FormatTime stores instants with sub-second precision so creation order survives a round trip.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// NullTime encodes an optional instant.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ScanEntry decodes one row selected with EntryColumns. The day is anchored
// at local midnight.
func ScanEntry(sc Scanner) (models.Entry, error) {
	var e models.Entry
	var day, createdAt, updatedAt string
	var deletedAt sql.NullString

	if err := sc.Scan(&e.ID, &day, &e.Content, &e.InkColor, &e.Font, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.Entry{}, err
	}

	var err error
	e.Day, err = time.ParseInLocation(constants.DateFormat, day, time.Local)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse day for entry %s: %w", e.ID, err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse created_at for entry %s: %w", e.ID, err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse updated_at for entry %s: %w", e.ID, err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, deletedAt.String)
		if err != nil {
			return models.Entry{}, fmt.Errorf("failed to parse deleted_at for entry %s: %w", e.ID, err)
		}
		e.DeletedAt = &t
	}

	return e, nil
}

// ScanEntries drains rows into a slice. The caller closes rows.
func ScanEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := ScanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
