package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	j, err := ctx.Journal(bg)
	if err != nil {
		return err
	}
	gate, scheduler, err := ctx.Reminders(bg)
	if err != nil {
		return err
	}

	// Reminders fire while the TUI is open.
	if gate.Enabled() {
		h, m := gate.Time()
		if err := scheduler.ScheduleDaily(bg, h, m); err != nil {
			logger.Warn("Failed to schedule reminder", "error", err)
		}
	}
	go func() {
		if err := scheduler.Run(bg); err != nil {
			logger.Warn("Reminder loop stopped", "error", err)
		}
	}()

	model := tui.NewModel(bg, j, ctx.Auth, gate, ctx)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
