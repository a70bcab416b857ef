package entries

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/memories"
	"github.com/maimon495/gratitude/internal/utils"
)

func printEntry(e models.Entry) {
	fmt.Printf("%s\n", e.Day.Format(constants.ElegantDateFormat))
	fmt.Printf("  %s\n", strings.ReplaceAll(e.Content, "\n", "\n  "))
	fmt.Printf("  ink: %s · font: %s\n", e.Ink().Name, e.Typeface().Name)
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}

	e, ok := j.Today()
	if !ok {
		fmt.Println("Nothing written today yet. Run 'gratitude write' to add an entry.")
	} else {
		printEntry(e)
	}
	fmt.Printf("\nCurrent streak: %d day(s)\n", j.CurrentStreak())
	return nil
}

type ShowCmd struct {
	Date string `arg:"" help:"Day to show (YYYY-MM-DD, today, yesterday)."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	day, err := utils.ParseDayArg(c.Date, j.Now())
	if err != nil {
		return err
	}
	e, ok := j.EntryForDay(day)
	if !ok {
		fmt.Printf("No entry for %s.\n", utils.DayKey(day))
		return nil
	}
	printEntry(e)
	return nil
}

type HistoryCmd struct {
	Search string `help:"Only show entries containing this text."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}

	months := j.Months(c.Search)
	if len(months) == 0 {
		if c.Search != "" {
			fmt.Printf("No entries match %q.\n", c.Search)
		} else {
			fmt.Println("No entries yet.")
		}
		return nil
	}
	for i, m := range months {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%d)\n", m.Label, len(m.Entries))
		for _, e := range m.Entries {
			fmt.Printf("  %s  %s\n", e.Day.Format("Mon 02"), e.Preview(70))
		}
	}
	return nil
}

type WeekCmd struct {
	Search string `help:"Only show entries containing this text."`
	Offset int    `help:"Weeks back from the most recent page (0 is the current week)." default:"0"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	if c.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}

	weeks := j.Weeks(c.Search)
	if c.Offset >= len(weeks) {
		fmt.Printf("Only %d week page(s) available.\n", len(weeks))
		return nil
	}
	w := weeks[c.Offset]
	now := j.Now()

	fmt.Printf("Week of %s (%d/7 days)\n\n", w.Start.Format(constants.ShortDateFormat), w.Count())
	for i, e := range w.Days {
		day := utils.AddDays(w.Start, i)
		marker := "○"
		text := ""
		switch {
		case e != nil:
			marker = "●"
			text = e.Preview(60)
		case utils.DaysBetween(now, day) > 0:
			marker = " "
		}
		fmt.Printf("  %s %s  %s\n", marker, day.Format("Mon Jan 02"), text)
	}
	return nil
}

type OnThisDayCmd struct{}

func (c *OnThisDayCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	entries := j.OnThisDay()
	if len(entries) == 0 {
		fmt.Println("No memories from this day yet. Keep writing!")
		return nil
	}
	now := j.Now()
	for _, e := range entries {
		fmt.Printf("%s · ", memories.YearsAgo(e.Day, now))
		printEntry(e)
		fmt.Println()
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	s := j.Stats()

	fmt.Println("Journal Stats:")
	fmt.Printf("  Total entries:  %d\n", s.TotalEntries)
	fmt.Printf("  Current streak: %d day(s)\n", s.CurrentStreak)
	fmt.Printf("  Longest streak: %d day(s)\n", s.LongestStreak)
	if !s.FirstDay.IsZero() {
		fmt.Printf("  Writing since:  %s\n", s.FirstDay.Format(constants.ShortDateFormat))
	}

	fmt.Println("\nInk usage:")
	for _, ink := range models.Inks() {
		fmt.Printf("  %-20s %d\n", ink.Name, s.InkCounts[ink.Code])
	}

	fmt.Println("\nFont usage:")
	fonts := models.Fonts()
	sort.SliceStable(fonts, func(a, b int) bool {
		return s.FontCounts[fonts[a].Code] > s.FontCounts[fonts[b].Code]
	})
	for _, f := range fonts {
		fmt.Printf("  %-20s %d\n", f.Name, s.FontCounts[f.Code])
	}
	return nil
}

type InksCmd struct{}

func (c *InksCmd) Run(ctx *cli.Context) error {
	for _, ink := range models.Inks() {
		def := ""
		if ink.Code == models.DefaultInk {
			def = " (default)"
		}
		fmt.Printf("  %-20s %-20s %s%s\n", ink.Code, ink.Name, ink.Description, def)
	}
	return nil
}

type FontsCmd struct{}

func (c *FontsCmd) Run(ctx *cli.Context) error {
	for _, f := range models.Fonts() {
		def := ""
		if f.Code == models.DefaultFont {
			def = " (default)"
		}
		fmt.Printf("  %-16s %-16s %s%s\n", f.Code, f.Name, f.Description, def)
	}
	return nil
}
