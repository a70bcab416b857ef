package system

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/storage/sqlite"
)

var debugNow = time.Date(2024, 4, 2, 21, 0, 0, 0, time.Local)

func setupTestDebugDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Sink:  stubSink{},
		Now:   func() time.Time { return debugNow },
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, cleanup
}

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	runErr := fn()
	w.Close()
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(out), runErr
}

func TestDebugDBPathCmd(t *testing.T) {
	ctx, cleanup := setupTestDebugDB(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DebugDBPathCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("debug db-path command failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["path"] != ctx.Store.GetConfigPath() {
		t.Errorf("path = %q, want %q", got["path"], ctx.Store.GetConfigPath())
	}
	if got["backend"] != "sqlite" {
		t.Errorf("backend = %q, want sqlite", got["backend"])
	}
	if !strings.HasSuffix(got["log"], filepath.Join("logs", "gratitude.log")) {
		t.Errorf("unexpected log path %q", got["log"])
	}
}

func TestDebugDumpEntryCmd(t *testing.T) {
	ctx, cleanup := setupTestDebugDB(t)
	defer cleanup()
	bg := context.Background()

	j, err := ctx.Journal(bg)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	first, err := j.Save(bg, debugNow, "Crocuses", models.DefaultInk, models.DefaultFont)
	if err != nil {
		t.Fatalf("failed to save entry: %v", err)
	}
	if err := j.Delete(bg, first.ID); err != nil {
		t.Fatalf("failed to delete entry: %v", err)
	}
	if _, err := j.Save(bg, debugNow, "Rain on the roof", models.DefaultInk, models.DefaultFont); err != nil {
		t.Fatalf("failed to save replacement: %v", err)
	}

	out, err := captureStdout(t, func() error { return (&DebugDumpEntryCmd{Date: "today"}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-entry failed: %v", err)
	}

	var entries []models.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("expected live and deleted entries, got %d", len(entries))
	}
	deleted := 0
	for _, e := range entries {
		if e.IsDeleted() {
			deleted++
		}
	}
	if deleted != 1 {
		t.Errorf("expected one deleted entry, got %d", deleted)
	}
}

func TestDebugDumpEntryCmd_Errors(t *testing.T) {
	ctx, cleanup := setupTestDebugDB(t)
	defer cleanup()

	if err := (&DebugDumpEntryCmd{Date: "yesterday"}).Run(ctx); err == nil {
		t.Error("expected an error for a day without entries")
	}
	if err := (&DebugDumpEntryCmd{Date: "2024-13-45"}).Run(ctx); err == nil {
		t.Error("expected an error for an invalid date")
	}
}

func TestDebugDumpSettingsCmd(t *testing.T) {
	ctx, cleanup := setupTestDebugDB(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DebugDumpSettingsCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-settings failed: %v", err)
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(out), &settings); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if settings.ReminderTime != "20:00" {
		t.Errorf("ReminderTime = %q, want 20:00", settings.ReminderTime)
	}
}
