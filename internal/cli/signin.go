package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/config"
	"github.com/maimon495/gratitude/internal/logger"
)

// PromptGoogleFlow asks the user to paste the ID token obtained from the
// Google consent page.
type PromptGoogleFlow struct{}

func (PromptGoogleFlow) SignIn(ctx context.Context) (auth.GoogleTokens, error) {
	if !Interactive() {
		return auth.GoogleTokens{}, auth.ErrNoSurface
	}

	var tokens auth.GoogleTokens
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Google ID token").
				Description("Paste the id_token returned by Google sign-in. Leave empty to cancel.").
				Value(&tokens.IDToken),
			huh.NewInput().
				Title("Access token (optional)").
				Value(&tokens.AccessToken),
		),
	).WithTheme(huh.ThemeDracula()).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return auth.GoogleTokens{}, auth.ErrCanceled
	}
	if err != nil {
		return auth.GoogleTokens{}, err
	}
	tokens.IDToken = strings.TrimSpace(tokens.IDToken)
	if tokens.IDToken == "" {
		return auth.GoogleTokens{}, auth.ErrCanceled
	}
	return tokens, nil
}

// NewAuthService builds the auth gate from the environment. Providers
// without a configured key are left disabled.
func NewAuthService(cfg config.Config, flow auth.GoogleFlow, opts ...auth.Option) (*auth.Service, error) {
	var all []auth.Option
	if cfg.Apple.Configured() {
		v, err := auth.VerifierFromConfig(cfg.Apple)
		if err != nil {
			return nil, fmt.Errorf("apple provider: %w", err)
		}
		all = append(all, auth.WithApple(v))
	} else {
		logger.Debug("Sign in with Apple not configured")
	}
	if cfg.Google.Configured() {
		v, err := auth.VerifierFromConfig(cfg.Google)
		if err != nil {
			return nil, fmt.Errorf("google provider: %w", err)
		}
		all = append(all, auth.WithGoogle(v, flow))
	} else {
		logger.Debug("Google sign-in not configured")
	}
	return auth.NewService(append(all, opts...)...), nil
}
