package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maimon495/gratitude/internal/backup"
	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/storage"
	"github.com/maimon495/gratitude/internal/utils"
	"github.com/maimon495/gratitude/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Soft delete duplicate and empty entries found by validation."`
}

// errSkipped marks a check that does not apply to the current backend.
type errSkipped string

func (e errSkipped) Error() string { return string(e) }

type warning string

func (w warning) Error() string { return string(w) }

// detail passes the check with an extra line of output.
type detail string

func (d detail) Error() string { return string(d) }

type check struct {
	name       string
	needsStore bool
	run        func() error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	fmt.Println("Running diagnostics...")
	fmt.Println()

	now := time.Now
	if ctx.Now != nil {
		now = ctx.Now
	}

	checks := []check{
		{"Database reachable", false, func() error { return checkDBReachable(bg, ctx) }},
		{"Schema version", true, func() error { return checkSchemaVersion(bg, ctx) }},
		{"Migrations complete", true, func() error { return checkMigrationsComplete(bg, ctx) }},
		{"Backups present", false, func() error { return checkBackupsPresent(ctx) }},
		{"Settings", true, func() error { return checkSettings(bg, ctx) }},
		{"Entry validation", true, func() error { return checkEntries(bg, ctx, now(), cmd.Fix) }},
		{"Clock/timezone", false, func() error { return checkClockTimezone(bg, ctx, now()) }},
		{"Reminder delivery", true, func() error { return checkReminderDelivery(bg, ctx) }},
		{"Sign-in providers", false, func() error { return checkAuthProviders(ctx) }},
	}

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsStore && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run()
		switch e := err.(type) {
		case nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errSkipped:
			fmt.Printf("⊘ %s: SKIPPED (%s)\n", c.name, string(e))
		case warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %s\n", indent(string(e)))
		case detail:
			fmt.Printf("✓ %s: OK\n", c.name)
			fmt.Printf("   %s\n", indent(string(e)))
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %s\n", indent(err.Error()))
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n   ")
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Load(bg); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if m, ok := ctx.Store.(storage.Migrator); ok {
		if err := m.Ping(bg); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errSkipped("JSON storage has no schema")
	}
	current, latest, err := m.SchemaStatus(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(bg context.Context, ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errSkipped("JSON storage has no migrations")
	}
	current, latest, err := m.SchemaStatus(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if storage.DetectBackend(path) != storage.BackendSQLite {
		return errSkipped("backups only apply to SQLite")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return warning(fmt.Sprintf("failed to list backups: %v", err))
	}
	if len(backups) == 0 {
		return warning(fmt.Sprintf("no backups found - consider creating one with '%s backup create'", constants.AppName))
	}
	return nil
}

func checkSettings(bg context.Context, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	result := validation.New().ValidateSettings(settings)
	if result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkEntries(bg context.Context, ctx *cli.Context, now time.Time, fix bool) error {
	entries, err := ctx.Store.GetAllEntries(bg)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}

	result := validation.New().ValidateEntries(entries, now)
	if !result.HasConflicts() {
		return nil
	}

	var fixable, notes validation.ValidationResult
	for _, c := range result.Conflicts {
		if c.Fixable() {
			fixable.Conflicts = append(fixable.Conflicts, c)
		} else {
			notes.Conflicts = append(notes.Conflicts, c)
		}
	}

	if fixable.HasConflicts() && fix {
		removed := 0
		for _, c := range fixable.Conflicts {
			for _, id := range c.EntryIDs {
				if err := ctx.Store.DeleteEntry(bg, id); err != nil {
					return fmt.Errorf("failed to delete entry %s: %w", id, err)
				}
				removed++
			}
		}
		msg := fmt.Sprintf("Fixed: soft deleted %d entries (restore with '%s restore DATE')", removed, constants.AppName)
		if notes.HasConflicts() {
			return warning(msg + "\n" + notes.FormatReport())
		}
		return detail(msg)
	}

	if fixable.HasConflicts() {
		return fmt.Errorf("%s(run '%s doctor --fix' to repair)", fixable.FormatReport(), constants.AppName)
	}
	if notes.HasConflicts() {
		return warning(notes.FormatReport())
	}
	return nil
}

func checkClockTimezone(bg context.Context, ctx *cli.Context, now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	settings, err := ctx.Settings(bg)
	if err != nil {
		return nil
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	return nil
}

func checkReminderDelivery(bg context.Context, ctx *cli.Context) error {
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	if !settings.ReminderEnabled {
		return errSkipped("reminder is off")
	}
	if err := ctx.SinkOrDefault().Ping(bg); err != nil {
		return warning(fmt.Sprintf("reminders cannot be shown: %v", err))
	}
	return nil
}

func checkAuthProviders(ctx *cli.Context) error {
	var configured []string
	if ctx.Config.Apple.Configured() {
		configured = append(configured, "apple")
	}
	if ctx.Config.Google.Configured() {
		configured = append(configured, "google")
	}
	if len(configured) == 0 {
		return errSkipped(fmt.Sprintf("none configured; set %sAPPLE_AUDIENCE/PUBLIC_KEY or %sGOOGLE_AUDIENCE/PUBLIC_KEY", constants.EnvPrefix, constants.EnvPrefix))
	}
	return detail("Configured: " + strings.Join(configured, ", "))
}
