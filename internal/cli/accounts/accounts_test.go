package accounts

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/cli"
	"github.com/maimon495/gratitude/internal/keyring"
)

const (
	issuer   = "https://appleid.apple.com"
	audience = "com.maimon495.gratitude"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type memSessions struct{ data []byte }

func (m *memSessions) Load() ([]byte, error) {
	if m.data == nil {
		return nil, keyring.ErrNotFound
	}
	return m.data, nil
}
func (m *memSessions) Save(data []byte) error { m.data = data; return nil }
func (m *memSessions) Delete() error          { m.data = nil; return nil }

type cancelFlow struct{}

func (cancelFlow) SignIn(context.Context) (auth.GoogleTokens, error) {
	return auth.GoogleTokens{}, auth.ErrCanceled
}

func setup(t *testing.T) (*cli.Context, ed25519.PrivateKey, *memSessions) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	v, err := auth.NewVerifier(issuer, audience, auth.WithKey("", pub), auth.WithNow(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	sessions := &memSessions{}
	svc := auth.NewService(
		auth.WithApple(v),
		auth.WithGoogle(v, cancelFlow{}),
		auth.WithSessionStore(sessions),
		auth.WithClock(func() time.Time { return fixedNow }),
	)
	return &cli.Context{Auth: svc}, priv, sessions
}

func appleToken(t *testing.T, key ed25519.PrivateKey, nonce string) string {
	t.Helper()
	claims := auth.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   "001.apple",
			IssuedAt:  jwt.NewNumericDate(fixedNow.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
		Email: "me@example.com",
		Nonce: auth.HashNonce(nonce),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestLoginAppleAndLogout(t *testing.T) {
	ctx, key, sessions := setup(t)

	nonce := "raw-nonce-for-test"
	cmd := &LoginAppleCmd{Token: appleToken(t, key, nonce), Nonce: nonce, Name: "Ada"}
	require.NoError(t, cmd.Run(ctx))

	require.True(t, ctx.Auth.IsAuthenticated())
	user := ctx.Auth.CurrentUser()
	assert.Equal(t, "001.apple", user.ID)
	assert.Equal(t, "Ada", user.Greeting())
	assert.Equal(t, auth.ProviderApple, user.Provider)
	assert.NotNil(t, sessions.data)

	require.NoError(t, (&WhoamiCmd{}).Run(ctx))

	require.NoError(t, (&LogoutCmd{}).Run(ctx))
	assert.False(t, ctx.Auth.IsAuthenticated())
	assert.Nil(t, sessions.data)

	require.NoError(t, (&LogoutCmd{}).Run(ctx), "second logout is a no-op")
}

func TestLoginAppleNonceMismatch(t *testing.T) {
	ctx, key, _ := setup(t)

	cmd := &LoginAppleCmd{Token: appleToken(t, key, "issued-nonce"), Nonce: "another-nonce"}
	assert.Error(t, cmd.Run(ctx))
	assert.False(t, ctx.Auth.IsAuthenticated())
}

func TestLoginGoogleCancelled(t *testing.T) {
	ctx, _, _ := setup(t)

	require.NoError(t, (&LoginGoogleCmd{}).Run(ctx))
	assert.False(t, ctx.Auth.IsAuthenticated())
}

func TestLoginProviderNotConfigured(t *testing.T) {
	ctx := &cli.Context{Auth: auth.NewService(auth.WithSessionStore(&memSessions{}))}

	err := (&LoginAppleCmd{Token: "x", Nonce: "y"}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRATITUDE_APPLE_")

	assert.Error(t, (&LoginGoogleCmd{}).Run(ctx))
}

func TestCommandsWithoutAuth(t *testing.T) {
	ctx := &cli.Context{}
	assert.Error(t, (&LoginGoogleCmd{}).Run(ctx))
	assert.Error(t, (&LogoutCmd{}).Run(ctx))
	assert.NoError(t, (&WhoamiCmd{}).Run(ctx))
}
