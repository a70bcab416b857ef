package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrEmptyContent is returned when an entry would be saved without text.
	ErrEmptyContent = stderrors.New("entry content is empty")

	// ErrEntryNotFound is returned when no entry matches an id or day.
	ErrEntryNotFound = stderrors.New("entry not found")

	// ErrDayOccupied is returned when restoring an entry onto a day that
	// already has a live entry.
	ErrDayOccupied = stderrors.New("a live entry already exists for that day")

	// ErrNotificationAuthDenied is returned when the user refuses reminder delivery.
	ErrNotificationAuthDenied = stderrors.New("notification authorization denied")

	// ErrStorageInit marks failures opening or migrating the store. These are
	// unrecoverable at startup.
	ErrStorageInit = stderrors.New("storage initialization failed")
)

// StorageError wraps a failed write to the entry store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AuthErrorKind classifies authentication failures.
type AuthErrorKind int

const (
	AuthSignInFailed AuthErrorKind = iota
	AuthSignOutFailed
	AuthNoPresentationSurface
	AuthInvalidCredential
	AuthProviderNotConfigured
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthSignInFailed:
		return "sign-in failed"
	case AuthSignOutFailed:
		return "sign-out failed"
	case AuthNoPresentationSurface:
		return "no presentation surface"
	case AuthInvalidCredential:
		return "invalid credential"
	case AuthProviderNotConfigured:
		return "provider not configured"
	default:
		return "unknown auth error"
	}
}

// AuthError is returned by the auth service.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another *AuthError of the same kind, so callers can write
// errors.Is(err, &AuthError{Kind: AuthInvalidCredential}).
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewAuthError builds an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind, msg string, err error) *AuthError {
	return &AuthError{Kind: kind, Message: msg, Err: err}
}

// IsAuthKind reports whether err is an AuthError of kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return stderrors.As(err, &ae) && ae.Kind == kind
}
