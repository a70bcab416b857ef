// Package config reads environment overrides. Flags win over the
// environment, and the settings table holds everything the user edits
// from inside the app.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/maimon495/gratitude/internal/constants"
)

// Provider holds the token verification settings for one identity provider.
type Provider struct {
	Issuer    string `env:"ISSUER"`
	Audience  string `env:"AUDIENCE"`
	PublicKey string `env:"PUBLIC_KEY"`
	KeyID     string `env:"KEY_ID"`
}

// Configured reports whether tokens from this provider can be verified.
func (p Provider) Configured() bool {
	return strings.TrimSpace(p.Audience) != "" && strings.TrimSpace(p.PublicKey) != ""
}

// Config is everything read from GRATITUDE_* variables.
type Config struct {
	ConfigPath string   `env:"CONFIG"`
	Debug      bool     `env:"DEBUG"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
	Apple      Provider `envPrefix:"APPLE_"`
	Google     Provider `envPrefix:"GOOGLE_"`
}

const (
	defaultAppleIssuer  = "https://appleid.apple.com"
	defaultGoogleIssuer = "https://accounts.google.com"
)

// Load parses the environment. Each existing dotenv file is read first
// without overriding variables that are already set.
func Load(dotenvPaths ...string) (Config, error) {
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", p, err)
		}
	}

	cfg := Config{
		Apple:  Provider{Issuer: defaultAppleIssuer},
		Google: Provider{Issuer: defaultGoogleIssuer},
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: constants.EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Apple.Issuer == "" {
		cfg.Apple.Issuer = defaultAppleIssuer
	}
	if cfg.Google.Issuer == "" {
		cfg.Google.Issuer = defaultGoogleIssuer
	}
	return cfg, nil
}

// DotenvPaths returns the .env files consulted at startup: one in the
// working directory and one next to the database.
func DotenvPaths(configDir string) []string {
	paths := []string{".env"}
	if configDir != "" {
		paths = append(paths, filepath.Join(configDir, ".env"))
	}
	return paths
}

// ResolvePath picks the database target. An explicit flag wins, then
// GRATITUDE_CONFIG, then the built-in default.
func ResolvePath(flag string, cfg Config) string {
	if flag != "" && flag != constants.DefaultConfigPath {
		return flag
	}
	if cfg.ConfigPath != "" {
		return cfg.ConfigPath
	}
	if flag != "" {
		return flag
	}
	return constants.DefaultConfigPath
}

// ReadKey returns PEM material from value, which is either inline PEM or a
// path to a PEM file.
func ReadKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("no key configured")
	}
	if strings.HasPrefix(value, "-----BEGIN") {
		return []byte(strings.ReplaceAll(value, `\n`, "\n")), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return data, nil
}
