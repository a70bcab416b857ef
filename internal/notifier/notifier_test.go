package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/maimon495/gratitude/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := stubConfigDir(t)

	want := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/gratitude/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}

	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	dir, _ = GetTrayAppConfigDir()
	if dir != want {
		t.Errorf("unreadable settings should fall back to %s, got %s", want, dir)
	}
}

func TestReadLockfile(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, err := readLockfile(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile: expected ErrTrayNotRunning, got %v", err)
	}

	tests := []struct {
		name    string
		content string
		exe     string
		wantErr string
	}{
		{name: "two parts", content: "8080|12345", exe: "gratitude-tray", wantErr: "malformed"},
		{name: "garbage", content: "invalid", exe: "gratitude-tray", wantErr: "malformed"},
		{name: "empty secret", content: "8080|12345|", exe: "gratitude-tray", wantErr: "secret"},
		{name: "empty port", content: "|12345|s3cret", exe: "gratitude-tray", wantErr: "port"},
		{name: "port out of range", content: "99999|12345|s3cret", exe: "gratitude-tray", wantErr: "range"},
		{name: "bad pid", content: "8080|abc|s3cret", exe: "gratitude-tray", wantErr: "process ID"},
		{name: "process gone", content: "8080|12345|s3cret", exe: "", wantErr: "not running"},
		{name: "wrong executable", content: "8080|12345|s3cret", exe: "other-app", wantErr: "is not"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.exe)
			if err := os.WriteFile(lockfile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := readLockfile(lockfile)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		stubProcess(t, "gratitude-tray")
		if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
			t.Fatal(err)
		}
		ep, err := readLockfile(lockfile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ep.port != "8080" || ep.secret != "s3cret" {
			t.Errorf("unexpected endpoint %+v", ep)
		}
	})
}

type trayServer struct {
	*httptest.Server
	payloads []Payload
	failures int32
}

func newTrayServer(t *testing.T, secret string, failFirst int32) *trayServer {
	t.Helper()
	ts := &trayServer{failures: failFirst}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Gratitude-Secret") != secret {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		if atomic.AddInt32(&ts.failures, -1) >= 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		ts.payloads = append(ts.payloads, p)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *trayServer) port() string {
	parts := strings.Split(ts.URL, ":")
	return parts[len(parts)-1]
}

// installTray writes a lockfile pointing at ts.
func installTray(t *testing.T, ts *trayServer, secret string) {
	t.Helper()
	dir := filepath.Join(stubConfigDir(t), constants.TrayAppIdentifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("%s|4242|%s", ts.port(), secret)
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, "gratitude-tray")
}

func testNotifier() *Notifier {
	n := New()
	n.retryDelay = time.Millisecond
	return n
}

func TestNotify(t *testing.T) {
	ts := newTrayServer(t, "s3cret", 0)
	installTray(t, ts, "s3cret")
	n := testNotifier()

	if err := n.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := n.Notify(context.Background(), constants.ReminderTitle, constants.ReminderBody); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := n.ClearBadge(context.Background()); err != nil {
		t.Fatalf("ClearBadge: %v", err)
	}

	if len(ts.payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(ts.payloads))
	}
	toast := ts.payloads[0]
	if toast.Title != constants.ReminderTitle || toast.Text != constants.ReminderBody {
		t.Errorf("unexpected toast %+v", toast)
	}
	if toast.Badge == nil || *toast.Badge != 1 {
		t.Errorf("expected badge 1, got %v", toast.Badge)
	}
	clear := ts.payloads[1]
	if clear.Text != "" || clear.Badge == nil || *clear.Badge != 0 {
		t.Errorf("expected empty badge payload, got %+v", clear)
	}
}

func TestNotifyRetries(t *testing.T) {
	ts := newTrayServer(t, "s3cret", 2)
	installTray(t, ts, "s3cret")

	if err := testNotifier().Notify(context.Background(), "t", "hello"); err != nil {
		t.Fatalf("expected delivery on third attempt, got %v", err)
	}
	if len(ts.payloads) != 1 {
		t.Errorf("expected 1 delivered payload, got %d", len(ts.payloads))
	}
}

func TestNotifyWrongSecret(t *testing.T) {
	ts := newTrayServer(t, "s3cret", 0)
	installTray(t, ts, "wrong")

	err := testNotifier().Notify(context.Background(), "t", "hello")
	if err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	stubConfigDir(t)

	err := testNotifier().Notify(context.Background(), "t", "hello")
	if !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
	if err := testNotifier().Ping(context.Background()); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("Ping: expected ErrTrayNotRunning, got %v", err)
	}
}
