package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/storage/sqlite"
)

type fakeSink struct {
	pingErr error
}

func (f *fakeSink) Ping(context.Context) error                   { return f.pingErr }
func (f *fakeSink) Notify(context.Context, string, string) error { return nil }
func (f *fakeSink) ClearBadge(context.Context) error             { return nil }

func setupTestDB(t *testing.T) (*cli.Context, *fakeSink, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	sink := &fakeSink{}
	ctx := &cli.Context{
		Store: store,
		Sink:  sink,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, sink, cleanup
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSettingsCmd_List(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_UpdateReminder(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		Reminder: boolPtr(true),
		Time:     strPtr("07:45"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if !settings.ReminderEnabled {
		t.Error("expected reminder to be enabled")
	}
	if settings.ReminderTime != "07:45" {
		t.Errorf("expected reminder time 07:45, got %s", settings.ReminderTime)
	}

	gate, scheduler, err := ctx.Reminders(context.Background())
	if err != nil {
		t.Fatalf("failed to get reminders: %v", err)
	}
	if !gate.Enabled() || !scheduler.Scheduled() {
		t.Error("expected the reminder to be scheduled")
	}
	if h, m := gate.Time(); h != 7 || m != 45 {
		t.Errorf("expected gate time 07:45, got %02d:%02d", h, m)
	}
}

func TestSettingsCmd_ReminderDenied(t *testing.T) {
	ctx, sink, cleanup := setupTestDB(t)
	defer cleanup()
	sink.pingErr = errors.New("tray not running")

	cmd := &SettingsCmd{Reminder: boolPtr(true)}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected enabling to fail when the tray is unreachable")
	}

	settings, err := ctx.Store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.ReminderEnabled {
		t.Error("reminder was saved as enabled after authorization was refused")
	}
}

func TestSettingsCmd_UpdateCalendar(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		Timezone:  strPtr("Europe/Paris"),
		WeekStart: strPtr("Monday"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "Europe/Paris" {
		t.Errorf("expected timezone Europe/Paris, got %s", settings.Timezone)
	}
	if settings.WeekStart != "monday" {
		t.Errorf("expected week start monday, got %s", settings.WeekStart)
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"bad time", SettingsCmd{Time: strPtr("25:99")}},
		{"bad timezone", SettingsCmd{Timezone: strPtr("Mars/Olympus")}},
		{"bad week start", SettingsCmd{WeekStart: strPtr("friday")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, cleanup := setupTestDB(t)
			defer cleanup()

			before, err := ctx.Store.GetSettings(context.Background())
			if err != nil {
				t.Fatalf("failed to get settings: %v", err)
			}
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error for invalid input")
			}
			after, err := ctx.Store.GetSettings(context.Background())
			if err != nil {
				t.Fatalf("failed to get settings: %v", err)
			}
			if before != after {
				t.Errorf("settings changed after a rejected update: %+v -> %+v", before, after)
			}
		})
	}
}
