// Package reminder keeps the single daily gratitude reminder in step with
// the journal.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/maimon495/gratitude/internal/constants"
	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/models"
)

// Notifier is the platform side of the reminder.
type Notifier interface {
	RequestAuthorization(ctx context.Context) (bool, error)
	ScheduleDaily(ctx context.Context, hour, minute int) error
	CancelAll(ctx context.Context) error
	ClearBadge(ctx context.Context) error
}

// Gate decides when the reminder should be scheduled. It satisfies the
// journal's gate contract.
type Gate struct {
	notifier Notifier

	mu      sync.Mutex
	enabled bool
	hour    int
	minute  int
}

// NewGate builds a Gate from persisted settings. An unparsable reminder
// time falls back to the default.
func NewGate(n Notifier, settings models.Settings) *Gate {
	g := &Gate{notifier: n, enabled: settings.ReminderEnabled}
	g.hour, g.minute = reminderTime(settings.ReminderTime)
	return g
}

func reminderTime(value string) (int, int) {
	h, m, err := models.ParseReminderTime(value)
	if err != nil {
		logger.Warn("Invalid reminder time, using default", "value", value, "error", err)
		h, m, _ = models.ParseReminderTime(constants.DefaultReminderTime)
	}
	return h, m
}

// Enabled reports whether the reminder is on.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Time returns the configured hour and minute.
func (g *Gate) Time() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hour, g.minute
}

// Sync is called after every journal change. Once today is logged the
// pending reminder is replaced so that the next one fires tomorrow.
func (g *Gate) Sync(ctx context.Context, loggedToday bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled || !loggedToday {
		return
	}
	if err := g.notifier.CancelAll(ctx); err != nil {
		logger.Error("Failed to cancel reminder", "error", err)
		return
	}
	if err := g.notifier.ScheduleDaily(ctx, g.hour, g.minute); err != nil {
		logger.Error("Failed to reschedule reminder", "error", err)
		return
	}
	if err := g.notifier.ClearBadge(ctx); err != nil {
		logger.Warn("Failed to clear badge", "error", err)
	}
}

// Enable asks for permission and schedules the reminder.
func (g *Gate) Enable(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	granted, err := g.notifier.RequestAuthorization(ctx)
	if err != nil {
		logger.Error("Notification authorization failed", "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrNotificationAuthDenied, err)
	}
	if !granted {
		return apperrors.ErrNotificationAuthDenied
	}
	if err := g.schedule(ctx); err != nil {
		return err
	}
	g.enabled = true
	return nil
}

// Disable cancels the reminder.
func (g *Gate) Disable(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.notifier.CancelAll(ctx); err != nil {
		logger.Error("Failed to cancel reminder", "error", err)
		return fmt.Errorf("cancelling reminder: %w", err)
	}
	g.enabled = false
	return nil
}

// SetTime changes the reminder time, rescheduling when enabled.
func (g *Gate) SetTime(ctx context.Context, value string) error {
	h, m, err := models.ParseReminderTime(value)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	prevH, prevM := g.hour, g.minute
	g.hour, g.minute = h, m
	if !g.enabled {
		return nil
	}
	if err := g.schedule(ctx); err != nil {
		g.hour, g.minute = prevH, prevM
		return err
	}
	return nil
}

func (g *Gate) schedule(ctx context.Context) error {
	if err := g.notifier.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancelling reminder: %w", err)
	}
	if err := g.notifier.ScheduleDaily(ctx, g.hour, g.minute); err != nil {
		logger.Error("Failed to schedule reminder", "error", err)
		return fmt.Errorf("scheduling reminder: %w", err)
	}
	logger.Info("Reminder scheduled", "hour", g.hour, "minute", g.minute)
	return nil
}

// IsDenied reports whether err means the user refused notifications.
func IsDenied(err error) bool {
	return errors.Is(err, apperrors.ErrNotificationAuthDenied)
}
