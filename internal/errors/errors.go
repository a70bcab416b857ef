package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/maimon495/gratitude/internal/logger"
)

// Format renders err for the terminal with an "Error: " prefix. Journal
// errors get a message that says what happened to the user's data.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var storageErr *StorageError
	var authErr *AuthError
	switch {
	case stderrors.As(err, &storageErr):
		return fmt.Sprintf("Error: entry not saved, previous state kept (%s: %v)", storageErr.Op, storageErr.Err)
	case stderrors.As(err, &authErr):
		return "Error: " + authMessage(authErr)
	case stderrors.Is(err, ErrNotificationAuthDenied):
		return "Error: reminders are not allowed. Start the tray app or allow notifications in system settings, then try again"
	}
	return fmt.Sprintf("Error: %v", err)
}

func authMessage(e *AuthError) string {
	var msg string
	switch e.Kind {
	case AuthSignInFailed:
		msg = "sign-in failed"
	case AuthSignOutFailed:
		msg = "sign-out failed, you are still signed in"
	case AuthNoPresentationSurface:
		return "sign-in needs an interactive terminal"
	case AuthInvalidCredential:
		msg = "the identity token could not be verified"
	case AuthProviderNotConfigured:
		if e.Message != "" {
			return fmt.Sprintf("%s is not configured", e.Message)
		}
		return "this sign-in provider is not configured"
	default:
		return e.Error()
	}
	switch {
	case e.Message != "":
		return msg + ": " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Formatf is Format for a message built from format and args.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err
// is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for a formatted message.
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
