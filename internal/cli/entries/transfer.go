package entries

import (
	"context"
	"fmt"
	"os"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/storage/jsonfile"
)

type ExportCmd struct {
	File  string `arg:"" help:"Destination JSON file." type:"path"`
	Force bool   `help:"Overwrite the destination if it exists."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if _, err := os.Stat(c.File); err == nil {
		if !c.Force {
			return fmt.Errorf("%s already exists, pass --force to overwrite it", c.File)
		}
		if err := os.Remove(c.File); err != nil {
			return fmt.Errorf("failed to remove existing export: %w", err)
		}
	}

	entries, err := ctx.Store.GetAllEntriesIncludingDeleted(bg)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}

	out := jsonfile.NewStore(c.File)
	if err := out.Init(bg); err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	defer out.Close()

	if err := out.SaveSettings(bg, settings); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}
	live := 0
	for _, e := range entries {
		if err := out.AddEntry(bg, e); err != nil {
			return fmt.Errorf("failed to export entry %s: %w", e.ID, err)
		}
		if !e.IsDeleted() {
			live++
		}
	}

	fmt.Printf("✓ Exported %d entries (%d deleted) to %s\n", live, len(entries)-live, c.File)
	return nil
}

type ImportCmd struct {
	File      string `arg:"" help:"JSON file written by 'export'." type:"existingfile"`
	Overwrite bool   `help:"Replace entries on days that already have one."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	in := jsonfile.NewStore(c.File)
	if err := in.Load(bg); err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	defer in.Close()

	entries, err := in.GetAllEntries(bg)
	if err != nil {
		return err
	}

	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	result, err := j.Import(bg, entries, c.Overwrite)
	if err != nil {
		return fmt.Errorf("import stopped after %d entries: %w", result.Added+result.Updated, err)
	}

	fmt.Printf("✓ Imported %d new, %d updated, %d skipped\n", result.Added, result.Updated, result.Skipped)
	if result.Skipped > 0 && !c.Overwrite {
		fmt.Println("  Days that already had an entry were kept. Use --overwrite to replace them.")
	}
	return nil
}
