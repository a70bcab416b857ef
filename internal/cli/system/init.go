package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path, JSON file or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if storage.DetectBackend(dbPath) == storage.BackendPostgres {
			return fmt.Errorf("--force is not supported for PostgreSQL; drop the tables manually")
		}
		// Don't delete if it's the source
		if c.Source != "" {
			if absDbPath, err := filepath.Abs(dbPath); err == nil {
				dbPath = absDbPath
			}
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file lock
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(bg); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(bg, ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(bg context.Context, ctx *cli.Context, sourcePath string) error {
	source, err := storage.Open(sourcePath)
	if err != nil {
		return err
	}
	if err := source.Load(bg); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Println("  Migrating settings...")
	settings, err := source.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(bg, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating entries...")
	entries, err := source.GetAllEntriesIncludingDeleted(bg)
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	deleted := 0
	for _, entry := range entries {
		if err := ctx.Store.AddEntry(bg, entry); err != nil {
			return fmt.Errorf("failed to add entry %s: %w", entry.ID, err)
		}
		if entry.IsDeleted() {
			deleted++
		}
	}
	fmt.Printf("    Migrated %d entries (%d deleted)\n", len(entries), deleted)

	return nil
}
