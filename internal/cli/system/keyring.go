package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/keyring"
	"github.com/maimon495/gratitude/internal/storage/postgres"
)

// KeyringSetCmd saves a PostgreSQL connection string in the OS keyring.
// Passwords are allowed here since the keyring is encrypted.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !postgres.IsConnString(connStr) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠ Connection string contains a password; it is kept only in the OS keyring.")
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Printf("✓ Stored %s in OS keyring\n", maskPassword(connStr))
	fmt.Printf("  %s will use it whenever --config and %sCONFIG are not set\n", constants.AppName, constants.EnvPrefix)
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("no connection string found in keyring, use '%s keyring set' to store one", constants.AppName)
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring")
	}
	if err != nil {
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	fmt.Printf("  The journal falls back to %s\n", constants.DefaultConfigPath)
	return nil
}

// KeyringStatusCmd reports what the OS keyring holds for the app.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	items := []struct {
		label string
		get   func() (string, error)
	}{
		{"Connection string", func() (string, error) {
			s, err := keyring.GetConnectionString()
			return maskPassword(s), err
		}},
		{"Sign-in session", func() (string, error) {
			_, err := keyring.GetSession()
			return "", err
		}},
	}
	for _, it := range items {
		value, err := it.get()
		switch {
		case err == nil && value != "":
			fmt.Printf("✓ %s: %s\n", it.label, value)
		case err == nil:
			fmt.Printf("✓ %s: stored\n", it.label)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ %s: none\n", it.label)
		default:
			fmt.Printf("⚠ %s: %v\n", it.label, err)
		}
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); !ok {
			return connStr
		}
		scheme, rest, _ := strings.Cut(connStr, "://")
		at := strings.LastIndex(rest, "@")
		return scheme + "://" + u.User.Username() + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if key, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=****"
		}
	}
	return strings.Join(fields, " ")
}
