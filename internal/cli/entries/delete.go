package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/utils"
)

type DeleteCmd struct {
	Date string `arg:"" help:"Day whose entry to delete (YYYY-MM-DD, today, yesterday)."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	day, err := utils.ParseDayArg(c.Date, j.Now())
	if err != nil {
		return err
	}

	entry, ok := j.EntryForDay(day)
	if !ok {
		fmt.Printf("No entry for %s.\n", utils.DayKey(day))
		return nil
	}

	if !c.Yes {
		fmt.Printf("  %s\n\n", entry.Preview(70))
		confirmed, err := ctx.Ask(fmt.Sprintf("Delete the entry for %s?", entry.Day.Format(constants.ElegantDateFormat)))
		if err != nil {
			if errors.Is(err, cli.ErrNotInteractive) {
				return fmt.Errorf("refusing to delete without confirmation, pass --yes")
			}
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := j.Delete(bg, entry.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted entry for %s\n", utils.DayKey(day))
	fmt.Printf("  Run '%s restore %s' to bring it back.\n", constants.AppName, utils.DayKey(day))
	return nil
}

type RestoreCmd struct {
	Date string `arg:"" help:"Day whose deleted entry to restore (YYYY-MM-DD, today, yesterday)."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	day, err := utils.ParseDayArg(c.Date, j.Now())
	if err != nil {
		return err
	}

	entry, err := j.RestoreDay(bg, day)
	switch {
	case errors.Is(err, apperrors.ErrDayOccupied):
		return fmt.Errorf("%s already has an entry; delete it first to restore the old one", utils.DayKey(day))
	case errors.Is(err, apperrors.ErrEntryNotFound):
		fmt.Printf("No deleted entry for %s.\n", utils.DayKey(day))
		return nil
	case err != nil:
		return err
	}

	fmt.Printf("✓ Restored entry for %s\n", utils.DayKey(day))
	fmt.Printf("  %s\n", entry.Preview(70))
	return nil
}
