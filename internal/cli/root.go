package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/backup"
	"github.com/maimon495/gratitude/internal/config"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/notifier"
	"github.com/maimon495/gratitude/internal/reminder"
	"github.com/maimon495/gratitude/internal/storage"
	"github.com/maimon495/gratitude/internal/utils"
	"github.com/maimon495/gratitude/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Config config.Config
	Auth   *auth.Service

	// Optional seams. Zero values mean time.Now, the tray notifier and an
	// interactive huh prompt.
	Now     func() time.Time
	Sink    reminder.Sink
	Confirm func(title string) (bool, error)

	journal   *journal.Journal
	gate      *reminder.Gate
	scheduler *reminder.Scheduler
}

// Settings returns the stored settings with defaults filled in.
func (c *Context) Settings(ctx context.Context) (models.Settings, error) {
	settings, err := c.Store.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// ApplySettings validates and saves s, enabling, disabling or moving the
// reminder to match. When reminder permission is refused nothing is saved.
func (c *Context) ApplySettings(ctx context.Context, s models.Settings) error {
	result := validation.New().ValidateSettings(s)
	if result.HasConflicts() {
		return fmt.Errorf("invalid settings: %s", result.Conflicts[0].Description)
	}

	gate, _, err := c.Reminders(ctx)
	if err != nil {
		return err
	}
	if err := gate.SetTime(ctx, s.ReminderTime); err != nil {
		return err
	}
	switch {
	case s.ReminderEnabled && !gate.Enabled():
		if err := gate.Enable(ctx); err != nil {
			return err
		}
	case !s.ReminderEnabled && gate.Enabled():
		if err := gate.Disable(ctx); err != nil {
			return err
		}
	}

	if err := c.Store.SaveSettings(ctx, s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Journal builds the journal and its reminder plumbing on first use and
// loads the live entries. The store must already be loaded.
func (c *Context) Journal(ctx context.Context) (*journal.Journal, error) {
	if c.journal != nil {
		return c.journal, nil
	}

	settings, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	loc := utils.LocationFromSettings(settings)
	weekStart, err := models.ParseWeekStart(settings.WeekStart)
	if err != nil {
		logger.Warn("Ignoring week start setting", "error", err)
	}

	sink := c.SinkOrDefault()

	opts := []journal.Option{journal.WithLocation(loc), journal.WithWeekStart(weekStart)}
	if c.Now != nil {
		opts = append(opts, journal.WithClock(c.Now))
	}

	var j *journal.Journal
	c.scheduler = reminder.NewScheduler(sink, func(ctx context.Context) (bool, error) {
		// Other processes may have written since startup.
		if err := j.Load(ctx); err != nil {
			return false, err
		}
		_, ok := j.Today()
		return ok, nil
	}, loc)
	c.gate = reminder.NewGate(c.scheduler, settings)

	opts = append(opts, journal.WithReminderGate(c.gate))
	j = journal.New(c.Store, opts...)
	if err := j.Load(ctx); err != nil {
		return nil, err
	}
	c.journal = j
	return j, nil
}

// SinkOrDefault returns Sink, or the tray notifier when none was set.
func (c *Context) SinkOrDefault() reminder.Sink {
	if c.Sink == nil {
		c.Sink = notifier.New()
	}
	return c.Sink
}

// Reminders returns the gate and scheduler wired to the journal.
func (c *Context) Reminders(ctx context.Context) (*reminder.Gate, *reminder.Scheduler, error) {
	if _, err := c.Journal(ctx); err != nil {
		return nil, nil, err
	}
	return c.gate, c.scheduler, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if storage.DetectBackend(path) != storage.BackendSQLite {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ErrNotInteractive is returned when a prompt is needed but stdin is not a terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// Interactive reports whether prompts can be shown.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Ask shows a yes/no prompt.
func (c *Context) Ask(title string) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(title)
	}
	if !Interactive() {
		return false, ErrNotInteractive
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// ConfigDir returns the directory holding the database, logs and .env file
// for target. PostgreSQL targets use the default local directory.
func ConfigDir(target string) string {
	if storage.DetectBackend(target) == storage.BackendPostgres {
		target = constants.DefaultConfigPath
	}
	path, err := storage.ExpandPath(target)
	if err != nil {
		return ""
	}
	return filepath.Dir(path)
}
