package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/constants"
	apperrors "github.com/maimon495/gratitude/internal/errors"
)

var errNoAuth = errors.New("authentication is not available")

func explain(err error) error {
	if apperrors.IsAuthKind(err, apperrors.AuthProviderNotConfigured) {
		return fmt.Errorf("%w; set the %sAPPLE_* or %sGOOGLE_* variables (see 'gratitude doctor')", err, constants.EnvPrefix, constants.EnvPrefix)
	}
	return err
}

type LoginAppleCmd struct {
	Token string `help:"Identity token returned by Sign in with Apple. Prompted for when omitted."`
	Nonce string `help:"Raw nonce used for the request. A new one is generated when omitted."`
	Name  string `help:"Full name shared on first sign-in."`
	Email string `help:"Email shared on first sign-in."`
}

func (c *LoginAppleCmd) Run(ctx *cli.Context) error {
	if ctx.Auth == nil {
		return errNoAuth
	}

	nonce := c.Nonce
	if nonce == "" {
		var err error
		if nonce, err = auth.NewNonce(); err != nil {
			return err
		}
		fmt.Println("Start Sign in with Apple with this nonce:")
		fmt.Printf("  %s\n\n", auth.HashNonce(nonce))
	}

	cred := auth.AppleCredential{
		IdentityToken: strings.TrimSpace(c.Token),
		FullName:      c.Name,
		Email:         c.Email,
	}
	if cred.IdentityToken == "" {
		if !cli.Interactive() {
			return fmt.Errorf("no --token given and %w", cli.ErrNotInteractive)
		}
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Apple identity token").
					Description("Paste the identity_token returned by Apple.").
					Value(&cred.IdentityToken),
				huh.NewInput().
					Title("Name (optional)").
					Value(&cred.FullName),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Sign-in cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := ctx.Auth.SignInWithApple(context.Background(), cred, nonce); err != nil {
		return explain(err)
	}
	fmt.Printf("✓ Signed in as %s\n", ctx.Auth.CurrentUser().Greeting())
	return nil
}

type LoginGoogleCmd struct{}

func (c *LoginGoogleCmd) Run(ctx *cli.Context) error {
	if ctx.Auth == nil {
		return errNoAuth
	}
	if err := ctx.Auth.SignInWithGoogle(context.Background()); err != nil {
		if apperrors.IsAuthKind(err, apperrors.AuthNoPresentationSurface) {
			return fmt.Errorf("google sign-in needs an interactive terminal")
		}
		return explain(err)
	}
	if !ctx.Auth.IsAuthenticated() {
		fmt.Println("Sign-in cancelled.")
		return nil
	}
	fmt.Printf("✓ Signed in as %s\n", ctx.Auth.CurrentUser().Greeting())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if ctx.Auth == nil {
		return errNoAuth
	}
	if !ctx.Auth.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := ctx.Auth.SignOut(context.Background()); err != nil {
		return err
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if ctx.Auth == nil || !ctx.Auth.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	u := ctx.Auth.CurrentUser()
	fmt.Printf("Signed in as %s\n", u.Greeting())
	fmt.Printf("  Provider: %s\n", u.Provider)
	if u.Email != "" {
		fmt.Printf("  Email:    %s\n", u.Email)
	}
	fmt.Printf("  User ID:  %s\n", u.ID)
	return nil
}
