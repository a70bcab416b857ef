package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/logger"
)

// RemindCmd keeps the daily reminder scheduled until interrupted.
type RemindCmd struct{}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(appCtx, ctx)
}

func (c *RemindCmd) run(bg context.Context, ctx *cli.Context) error {
	gate, scheduler, err := ctx.Reminders(bg)
	if err != nil {
		return err
	}
	if !gate.Enabled() {
		return fmt.Errorf("daily reminder is off (run '%s reminder enable' first)", constants.AppName)
	}

	h, m := gate.Time()
	if err := scheduler.ScheduleDaily(bg, h, m); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	if next, ok := scheduler.Next(j.Now()); ok {
		fmt.Printf("Reminding daily at %02d:%02d (next: %s). Press Ctrl+C to stop.\n", h, m, next.Format("Mon Jan 2 15:04"))
	}
	logger.Info("Reminder daemon started", "hour", h, "minute", m)

	if err := scheduler.Run(bg); err != nil {
		return err
	}
	logger.Info("Reminder daemon stopped")
	return nil
}
