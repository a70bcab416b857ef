package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maimon495/gratitude/internal/storage/jsonfile"
	"github.com/maimon495/gratitude/internal/storage/postgres"
	"github.com/maimon495/gratitude/internal/storage/sqlite"
)

// Backend names the storage implementation selected for a target.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendJSON     Backend = "json"
)

// Migrator is implemented by the SQL backends.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaStatus(ctx context.Context) (current, latest int, err error)
	Ping(ctx context.Context) error
}

// DetectBackend picks a backend from a --config value.
func DetectBackend(target string) Backend {
	switch {
	case postgres.IsConnString(target):
		return BackendPostgres
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Open builds the provider for target without connecting. PostgreSQL
// targets that embed a password are refused.
func Open(target string) (Provider, error) {
	switch DetectBackend(target) {
	case BackendPostgres:
		if _, err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	case BackendJSON:
		path, err := ExpandPath(target)
		if err != nil {
			return nil, err
		}
		return jsonfile.NewStore(path), nil
	default:
		path, err := ExpandPath(target)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}
