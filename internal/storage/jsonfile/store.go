// Package jsonfile stores the journal as a single JSON document. It backs
// export and import and is handy for tests.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/maimon495/gratitude/internal/constants"
	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/utils"
)

const documentVersion = 1

// Document is the on-disk layout.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Settings   models.Settings `json:"settings"`
	Entries    []models.Entry  `json:"entries"`
}

type Store struct {
	path string

	mu  sync.Mutex
	doc *Document
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load(ctx)
	}

	settings := models.Settings{ReminderEnabled: constants.DefaultReminderEnabled}
	models.ApplyDefaultSettings(&settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &Document{Version: documentVersion, Settings: settings}
	return s.save()
}

func (s *Store) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("document version (%d) is newer than supported version (%d)", doc.Version, documentVersion)
	}
	models.ApplyDefaultSettings(&doc.Settings)

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return nil
}

// save writes the document atomically. The caller holds s.mu.
func (s *Store) save() error {
	s.doc.ExportedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *Store) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *Store) AddEntry(ctx context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}

	for _, e := range s.doc.Entries {
		if e.ID == entry.ID {
			return fmt.Errorf("entry %s already exists", entry.ID)
		}
		if !e.IsDeleted() && !entry.IsDeleted() && utils.SameDay(e.Day, entry.Day) {
			return fmt.Errorf("a live entry already exists for %s", utils.DayKey(entry.Day))
		}
	}

	s.doc.Entries = append(s.doc.Entries, entry)
	return s.save()
}

func (s *Store) UpdateEntry(ctx context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}

	for i, e := range s.doc.Entries {
		if e.ID == entry.ID && !e.IsDeleted() {
			s.doc.Entries[i].Content = entry.Content
			s.doc.Entries[i].InkColor = entry.InkColor
			s.doc.Entries[i].Font = entry.Font
			s.doc.Entries[i].UpdatedAt = entry.UpdatedAt
			return s.save()
		}
	}
	return fmt.Errorf("update entry %s: %w", entry.ID, apperrors.ErrEntryNotFound)
}

func (s *Store) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Entry{}, err
	}

	for _, e := range s.doc.Entries {
		if e.ID == id && !e.IsDeleted() {
			return e, nil
		}
	}
	return models.Entry{}, fmt.Errorf("entry %s: %w", id, apperrors.ErrEntryNotFound)
}

func (s *Store) GetEntryByDay(ctx context.Context, day time.Time) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Entry{}, err
	}

	for _, e := range s.doc.Entries {
		if !e.IsDeleted() && utils.SameDay(e.Day, day) {
			return e, nil
		}
	}
	return models.Entry{}, fmt.Errorf("entry for %s: %w", utils.DayKey(day), apperrors.ErrEntryNotFound)
}

func (s *Store) GetAllEntries(ctx context.Context) ([]models.Entry, error) {
	return s.list(false)
}

func (s *Store) GetAllEntriesIncludingDeleted(ctx context.Context) ([]models.Entry, error) {
	return s.list(true)
}

func (s *Store) list(includeDeleted bool) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var out []models.Entry
	for _, e := range s.doc.Entries {
		if includeDeleted || !e.IsDeleted() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day.After(out[j].Day)
	})
	return out, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}

	for i, e := range s.doc.Entries {
		if e.ID == id && !e.IsDeleted() {
			now := time.Now()
			s.doc.Entries[i].DeletedAt = &now
			return s.save()
		}
	}
	return nil
}

func (s *Store) RestoreEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}

	idx := -1
	for i, e := range s.doc.Entries {
		if e.ID == id && e.IsDeleted() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("entry %s not found or not deleted: %w", id, apperrors.ErrEntryNotFound)
	}

	for _, e := range s.doc.Entries {
		if !e.IsDeleted() && utils.SameDay(e.Day, s.doc.Entries[idx].Day) {
			return fmt.Errorf("restore entry %s: %w", id, apperrors.ErrDayOccupied)
		}
	}

	s.doc.Entries[idx].DeletedAt = nil
	return s.save()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
