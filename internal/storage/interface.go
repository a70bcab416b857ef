package storage

import (
	"context"
	"time"

	"github.com/maimon495/gratitude/internal/models"
)

// Provider persists journal entries and application settings.
//
// Entry lookups only return live entries unless the method name says
// otherwise. GetEntry and GetEntryByDay wrap errors.ErrEntryNotFound when
// nothing matches.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Entries
	AddEntry(ctx context.Context, entry models.Entry) error
	UpdateEntry(ctx context.Context, entry models.Entry) error
	GetEntry(ctx context.Context, id string) (models.Entry, error)
	GetEntryByDay(ctx context.Context, day time.Time) (models.Entry, error)
	// GetAllEntries returns live entries ordered by day, most recent first.
	GetAllEntries(ctx context.Context) ([]models.Entry, error)
	GetAllEntriesIncludingDeleted(ctx context.Context) ([]models.Entry, error)
	// DeleteEntry soft deletes an entry. Deleting a missing or already
	// deleted entry is not an error.
	DeleteEntry(ctx context.Context, id string) error
	RestoreEntry(ctx context.Context, id string) error

	// Utils
	GetConfigPath() string
}
