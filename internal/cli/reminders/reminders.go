package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/notifier"
	"github.com/maimon495/gratitude/internal/reminder"
	"github.com/maimon495/gratitude/internal/utils"
)

type ReminderEnableCmd struct {
	Time string `help:"Reminder time (HH:MM). Keeps the current time when omitted."`
}

func (c *ReminderEnableCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	settings.ReminderEnabled = true
	if t := strings.TrimSpace(c.Time); t != "" {
		settings.ReminderTime = t
	}

	if err := ctx.ApplySettings(bg, settings); err != nil {
		if reminder.IsDenied(err) {
			fmt.Println("❌ Notifications are not available.")
			fmt.Println("   Start the gratitude tray app and try again.")
			return err
		}
		return err
	}

	fmt.Printf("✓ Daily reminder enabled at %s\n", settings.ReminderTime)
	fmt.Printf("  Keep '%s remind' running (or run '%s notify' from cron) to receive it.\n", constants.AppName, constants.AppName)
	return nil
}

type ReminderDisableCmd struct{}

func (c *ReminderDisableCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	if !settings.ReminderEnabled {
		fmt.Println("Reminder is already off.")
		return nil
	}
	settings.ReminderEnabled = false
	if err := ctx.ApplySettings(bg, settings); err != nil {
		return err
	}
	fmt.Println("✓ Daily reminder disabled")
	return nil
}

type ReminderStatusCmd struct{}

func (c *ReminderStatusCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	gate, scheduler, err := ctx.Reminders(bg)
	if err != nil {
		return err
	}

	if !gate.Enabled() {
		fmt.Println("Reminder: off")
		fmt.Printf("  Run '%s reminder enable' to turn it on.\n", constants.AppName)
		return nil
	}

	h, m := gate.Time()
	fmt.Printf("Reminder: daily at %02d:%02d (%s)\n", h, m, j.Location())

	if !scheduler.Scheduled() {
		if err := scheduler.ScheduleDaily(bg, h, m); err != nil {
			return err
		}
	}
	now := j.Now()
	if next, ok := scheduler.Next(now); ok {
		_, written := j.Today()
		if written && utils.SameDay(next, now) {
			fmt.Println("  Today's entry is written, so today's reminder will be skipped.")
			next, _ = scheduler.Next(utils.AddDays(utils.StartOfDay(now), 1))
		}
		fmt.Printf("  Next reminder: %s\n", next.Format("Mon Jan 2 15:04"))
	}

	switch err := ctx.SinkOrDefault().Ping(bg); {
	case err == nil:
		fmt.Println("  ✓ Tray app reachable")
	case errors.Is(err, notifier.ErrTrayNotRunning):
		fmt.Println("  ⚠ Tray app is not running, reminders cannot be shown")
	default:
		fmt.Printf("  ⚠ Tray app check failed: %v\n", err)
	}
	return nil
}
