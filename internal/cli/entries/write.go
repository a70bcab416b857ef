package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/handlers"
	"github.com/maimon495/gratitude/internal/tui/state"
	"github.com/maimon495/gratitude/internal/utils"
)

type WriteCmd struct {
	Text []string `arg:"" optional:"" help:"What you are grateful for. Opens an editor form when omitted."`
	Date string   `help:"Day to write for (YYYY-MM-DD, today, yesterday)." default:"today"`
	Ink  string   `help:"Ink color code (see 'gratitude inks')."`
	Font string   `help:"Font code (see 'gratitude fonts')."`
}

func (c *WriteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}

	day, err := utils.ParseDayArg(c.Date, j.Now())
	if err != nil {
		return err
	}
	if utils.DaysBetween(j.Now(), day) > 0 {
		return fmt.Errorf("cannot write an entry for a future day (%s)", utils.DayKey(day))
	}
	if c.Ink != "" && !models.IsKnownInk(c.Ink) {
		return fmt.Errorf("unknown ink %q, run 'gratitude inks' to list them", c.Ink)
	}
	if c.Font != "" && !models.IsKnownFont(c.Font) {
		return fmt.Errorf("unknown font %q, run 'gratitude fonts' to list them", c.Font)
	}

	var existing *models.Entry
	if e, ok := j.EntryForDay(day); ok {
		existing = &e
	}

	fm := state.NewEntryFormModel(day, existing)
	if c.Ink != "" {
		fm.Ink = c.Ink
	}
	if c.Font != "" {
		fm.Font = c.Font
	}

	if text := strings.TrimSpace(strings.Join(c.Text, " ")); text != "" {
		fm.Content = text
	} else {
		if !cli.Interactive() {
			return fmt.Errorf("no text given and %w", cli.ErrNotInteractive)
		}
		if err := handlers.NewEntryForm(fm).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Nothing saved.")
				return nil
			}
			return err
		}
	}

	entry, err := j.Save(bg, fm.Day, fm.Content, fm.Ink, fm.Font)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyContent) {
			return fmt.Errorf("entry is empty, nothing saved")
		}
		return err
	}

	verb := "Saved"
	if existing != nil {
		verb = "Updated"
	}
	fmt.Printf("✓ %s entry for %s\n", verb, entry.Day.Format(constants.ElegantDateFormat))
	if streak := j.CurrentStreak(); streak > 1 {
		fmt.Printf("🔥 %d day streak\n", streak)
	}
	return nil
}
