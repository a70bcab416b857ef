// Package notifier delivers reminders to the gratitude tray app over its
// local webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New("gratitude-tray is not running")

// Payload is the JSON body accepted by the tray webhook.
type Payload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text,omitempty"`
	DurationMs uint32 `json:"duration_ms,omitempty"`
	Badge      *int   `json:"badge,omitempty"`
}

// endpoint is where a running tray app listens.
type endpoint struct {
	port   string
	secret string
}

// Notifier posts to the tray app.
type Notifier struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

// New returns a Notifier using the default retry policy.
func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: 5 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Ping reports whether the tray app can receive notifications.
func (n *Notifier) Ping(ctx context.Context) error {
	_, err := locateTray()
	return err
}

// Notify shows title and text as a toast and sets the badge to 1.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	badge := 1
	return n.post(ctx, Payload{
		Title:      title,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
		Badge:      &badge,
	})
}

// ClearBadge resets the tray badge.
func (n *Notifier) ClearBadge(ctx context.Context) error {
	badge := 0
	return n.post(ctx, Payload{Badge: &badge})
}

func (n *Notifier) post(ctx context.Context, payload Payload) error {
	ep, err := locateTray()
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay):
			}
		}
		lastErr = send(ctx, n.client, ep, payload)
		if lastErr == nil {
			return nil
		}
		logger.Debug("Tray delivery failed", "attempt", attempt+1, "error", lastErr)
	}
	return fmt.Errorf("notification not delivered after %d attempts: %w", n.retries, lastErr)
}

func locateTray() (endpoint, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return endpoint{}, err
	}
	return readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
}

// GetTrayAppConfigDir returns where the tray app keeps its lockfile. A
// lockfile_dir in the tray's settings.json takes precedence.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("Ignoring unreadable tray settings", "error", err)
		return trayDir, nil
	}
	if d := doc.Settings.LockfileDir; d != nil && *d != "" {
		return *d, nil
	}
	return trayDir, nil
}

// readLockfile parses "port|pid|secret" and checks that pid is the tray.
func readLockfile(path string) (endpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return endpoint{}, errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return endpoint{port: port, secret: secret}, nil
}

func send(ctx context.Context, client *http.Client, ep endpoint, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://127.0.0.1:"+ep.port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gratitude-Secret", ep.secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
