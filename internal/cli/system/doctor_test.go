package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maimon495/gratitude/internal/backup"
	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/storage/jsonfile"
	"github.com/maimon495/gratitude/internal/storage/sqlite"
)

type stubSink struct{ pingErr error }

func (s stubSink) Ping(context.Context) error                   { return s.pingErr }
func (s stubSink) Notify(context.Context, string, string) error { return nil }
func (s stubSink) ClearBadge(context.Context) error             { return nil }

var doctorNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.Local)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *sqlite.Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Sink:  stubSink{},
		Now:   func() time.Time { return doctorNow },
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, store, cleanup
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	db := store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, _, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, store, cleanup := setupTestDoctorDB(t)
	defer cleanup()
	bg := context.Background()

	current, latest, err := store.SchemaStatus(bg)
	if err != nil {
		t.Fatalf("failed to get schema status: %v", err)
	}
	if current != latest || latest < 2 {
		t.Fatalf("unexpected schema status %d/%d", current, latest)
	}

	db := store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", latest-1); err != nil {
		t.Fatalf("failed to insert downgraded schema version: %v", err)
	}

	if err := checkMigrationsComplete(bg, ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _, cleanup := setupTestDoctorDB(t)
	defer cleanup()
	bg := context.Background()

	if err := checkClockTimezone(bg, ctx, doctorNow); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}
	if err := checkClockTimezone(bg, ctx, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected a 1999 clock to fail")
	}
}

func TestCheckReminderDelivery(t *testing.T) {
	ctx, _, cleanup := setupTestDoctorDB(t)
	defer cleanup()
	bg := context.Background()

	if _, ok := checkReminderDelivery(bg, ctx).(errSkipped); !ok {
		t.Error("expected the check to be skipped while the reminder is off")
	}

	settings, _ := ctx.Store.GetSettings(bg)
	settings.ReminderEnabled = true
	if err := ctx.Store.SaveSettings(bg, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	ctx.Sink = stubSink{pingErr: os.ErrNotExist}
	if _, ok := checkReminderDelivery(bg, ctx).(warning); !ok {
		t.Error("expected a warning when the tray is unreachable")
	}
}

const duplicateDoc = `{
  "version": 1,
  "settings": {"reminder_enabled": false, "reminder_time": "20:00", "timezone": "Local", "week_start": "sunday"},
  "entries": [
    {"id": "keep", "day": "2024-05-01T00:00:00Z", "content": "First", "ink_color": "stormy_grey", "font": "classic_serif",
     "created_at": "2024-05-01T20:00:00Z", "updated_at": "2024-05-01T21:00:00Z"},
    {"id": "dupe", "day": "2024-05-01T00:00:00Z", "content": "Second", "ink_color": "stormy_grey", "font": "classic_serif",
     "created_at": "2024-05-01T19:00:00Z", "updated_at": "2024-05-01T19:00:00Z"},
    {"id": "odd", "day": "2024-05-02T00:00:00Z", "content": "Neon", "ink_color": "neon_pink", "font": "classic_serif",
     "created_at": "2024-05-02T19:00:00Z", "updated_at": "2024-05-02T19:00:00Z"}
  ]
}`

func TestDoctorCmd_FixDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	if err := os.WriteFile(path, []byte(duplicateDoc), 0600); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	store := jsonfile.NewStore(path)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	ctx := &cli.Context{Store: store, Sink: stubSink{}, Now: func() time.Time { return doctorNow }}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on duplicate days")
	}

	if err := (&DoctorCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("doctor --fix failed: %v", err)
	}

	live, err := store.GetAllEntries(context.Background())
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	ids := map[string]bool{}
	for _, e := range live {
		ids[e.ID] = true
	}
	if ids["dupe"] || !ids["keep"] || !ids["odd"] {
		t.Errorf("unexpected live entries after fix: %v", ids)
	}

	// Unknown inks only warn
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor should pass after fixing: %v", err)
	}
}
