package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/logger"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// dsnParams splits a key=value connection string. Keys are lower-cased.
func dsnParams(connStr string) map[string]string {
	params := map[string]string{}
	for _, part := range strings.Fields(connStr) {
		if key, value, ok := strings.Cut(part, "="); ok {
			params[strings.ToLower(key)] = value
		}
	}
	return params
}

// hasParam reports whether connStr sets key, as a URL query parameter or a
// DSN pair, ignoring case.
func hasParam(connStr, key string) bool {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
		return false
	}
	_, ok := dsnParams(connStr)[strings.ToLower(key)]
	return ok
}

// withSearchPath points unqualified table names at the app's own schema
// unless the caller already chose one.
func withSearchPath(connStr string) string {
	if hasParam(connStr, "search_path") {
		return connStr
	}
	if !isURL(connStr) {
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
	}
	u, err := url.Parse(connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return connStr
	}
	q := u.Query()
	q.Set("search_path", constants.AppName)
	u.RawQuery = q.Encode()
	return u.String()
}

// ValidateConnString reports whether connStr is a usable URL or DSN that
// carries no password. Passwords belong in the keyring or .pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if !isURL(connStr) {
		if _, ok := dsnParams(connStr)["password"]; ok {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
	}
	if _, ok := u.User.Password(); ok {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
		return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
	}
	return true, nil
}

// IsConnString reports whether target looks like a PostgreSQL URL or DSN
// rather than a file path.
func IsConnString(target string) bool {
	t := strings.TrimSpace(target)
	if isURL(t) {
		return true
	}
	params := dsnParams(t)
	_, host := params["host"]
	_, db := params["dbname"]
	return host || db
}
