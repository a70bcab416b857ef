package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/storage"
	"github.com/maimon495/gratitude/internal/utils"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database and log paths."`
	DumpEntry    *DebugDumpEntryCmd    `cmd:"" help:"Dump every entry for a day as JSON, deleted ones included."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	output := map[string]string{
		"path":    path,
		"backend": string(storage.DetectBackend(path)),
		"log":     logger.LogPath(cli.ConfigDir(path)),
	}
	return printJSON(output)
}

type DebugDumpEntryCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}

	day, err := utils.ParseDayArg(cmd.Date, j.Now())
	if err != nil {
		return err
	}

	all, err := ctx.Store.GetAllEntriesIncludingDeleted(bg)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}

	matches := []models.Entry{}
	for _, e := range all {
		if utils.SameDay(e.Day.In(j.Location()), day) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("no entry found for date: %s", utils.DayKey(day))
	}
	return printJSON(matches)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings(context.Background())
	if err != nil {
		return err
	}
	return printJSON(settings)
}
