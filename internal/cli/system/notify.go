package system

import (
	"context"
	"fmt"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
)

// NotifyCmd sends today's reminder once. It is meant for cron or launchd
// setups that do not keep the remind daemon running.
type NotifyCmd struct {
	DryRun bool `help:"Report whether a reminder would be sent without sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	if !settings.ReminderEnabled {
		if c.DryRun {
			fmt.Println("Daily reminder is off.")
		}
		return nil
	}

	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}

	if c.DryRun {
		if _, ok := j.Today(); ok {
			fmt.Println("[DryRun] Today's entry is written; no reminder would be sent.")
			return nil
		}
		fmt.Printf("[DryRun] %s: %s\n", constants.ReminderTitle, constants.ReminderBody)
		return nil
	}

	_, scheduler, err := ctx.Reminders(bg)
	if err != nil {
		return err
	}
	if _, err := scheduler.Deliver(bg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}
