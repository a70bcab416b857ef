package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/storage/sqlrow"
)

func (s *Store) AddEntry(ctx context.Context, entry models.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (`+sqlrow.EntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, sqlrow.FormatDay(entry.Day), entry.Content, entry.InkColor, entry.Font,
		sqlrow.FormatTime(entry.CreatedAt), sqlrow.FormatTime(entry.UpdatedAt), sqlrow.NullTime(entry.DeletedAt))
	return err
}

// UpdateEntry rewrites the mutable fields of an existing entry. Day and
// created_at are never changed.
func (s *Store) UpdateEntry(ctx context.Context, entry models.Entry) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE entries SET content = ?, ink_color = ?, font = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		entry.Content, entry.InkColor, entry.Font, sqlrow.FormatTime(entry.UpdatedAt), entry.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("update entry %s: %w", entry.ID, apperrors.ErrEntryNotFound)
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sqlrow.EntryColumns+`
		FROM entries WHERE id = ? AND deleted_at IS NULL`, id)
	e, err := sqlrow.ScanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, apperrors.ErrEntryNotFound)
	}
	return e, err
}

func (s *Store) GetEntryByDay(ctx context.Context, day time.Time) (models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sqlrow.EntryColumns+`
		FROM entries WHERE day = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC LIMIT 1`, sqlrow.FormatDay(day))
	e, err := sqlrow.ScanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry for %s: %w", sqlrow.FormatDay(day), apperrors.ErrEntryNotFound)
	}
	return e, err
}

func (s *Store) GetAllEntries(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqlrow.EntryColumns+`
		FROM entries WHERE deleted_at IS NULL
		ORDER BY day DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return sqlrow.ScanEntries(rows)
}

func (s *Store) GetAllEntriesIncludingDeleted(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqlrow.EntryColumns+`
		FROM entries
		ORDER BY day DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return sqlrow.ScanEntries(rows)
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		sqlrow.FormatTime(time.Now()), id)
	return err
}

func (s *Store) RestoreEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE entries SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("entry %s not found or not deleted: %w", id, apperrors.ErrEntryNotFound)
	}

	return nil
}
