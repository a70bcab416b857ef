package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/maimon495/gratitude/internal/config"
	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/keyring"
)

const (
	appleIssuer   = "https://appleid.apple.com"
	appleAudience = "com.maimon495.gratitude"
	googleIssuer  = "https://accounts.google.com"
	googleClient  = "1234.apps.googleusercontent.com"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type signer struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func newSigner(t *testing.T) signer {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return signer{pub: pub, priv: priv}
}

func (s signer) sign(t *testing.T, claims IdentityClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.priv)
	require.NoError(t, err)
	return tok
}

func claimsFor(issuer, audience, subject string) IdentityClaims {
	return IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(fixedNow.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}
}

type memSessions struct {
	data    []byte
	saveErr error
	delErr  error
}

func (m *memSessions) Load() ([]byte, error) {
	if m.data == nil {
		return nil, keyring.ErrNotFound
	}
	return m.data, nil
}

func (m *memSessions) Save(data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = data
	return nil
}

func (m *memSessions) Delete() error {
	if m.delErr != nil {
		return m.delErr
	}
	m.data = nil
	return nil
}

type fakeFlow struct {
	tokens GoogleTokens
	err    error
}

func (f fakeFlow) SignIn(context.Context) (GoogleTokens, error) { return f.tokens, f.err }

func newVerifier(t *testing.T, issuer, audience string, key ed25519.PublicKey) *Verifier {
	t.Helper()
	v, err := NewVerifier(issuer, audience, WithKey("", key), WithNow(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return v
}

func TestNewNonce(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := NewNonce()
		require.NoError(t, err)
		require.Len(t, n, NonceLength)
		for _, r := range n {
			assert.True(t, strings.ContainsRune(nonceCharset, r), "unexpected rune %q", r)
		}
		assert.False(t, seen[n], "nonce repeated")
		seen[n] = true
	}
	assert.Len(t, nonceCharset, 65)
	assert.NotContains(t, nonceCharset, "W")
}

func TestNewNonceRandomFailure(t *testing.T) {
	old := randRead
	t.Cleanup(func() { randRead = old })
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

	_, err := NewNonce()
	assert.Error(t, err)
}

func TestHashNonce(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashNonce(""))
	assert.Len(t, HashNonce("abc"), 64)
}

func TestVerifier(t *testing.T) {
	s := newSigner(t)
	v := newVerifier(t, appleIssuer, appleAudience, s.pub)

	good := claimsFor(appleIssuer, appleAudience, "001.apple")
	good.Email = "me@example.com"
	claims, err := v.Verify(s.sign(t, good))
	require.NoError(t, err)
	assert.Equal(t, "001.apple", claims.Subject)
	assert.Equal(t, "me@example.com", claims.Email)

	tests := []struct {
		name    string
		mutate  func(*IdentityClaims)
		signer  *signer
		wantErr string
	}{
		{name: "expired", mutate: func(c *IdentityClaims) { c.ExpiresAt = jwt.NewNumericDate(fixedNow.Add(-time.Second)) }, wantErr: "expired"},
		{name: "no expiry", mutate: func(c *IdentityClaims) { c.ExpiresAt = nil }, wantErr: "invalid"},
		{name: "wrong issuer", mutate: func(c *IdentityClaims) { c.Issuer = "https://evil.example" }, wantErr: "issuer"},
		{name: "wrong audience", mutate: func(c *IdentityClaims) { c.Audience = jwt.ClaimStrings{"other.app"} }, wantErr: "audience"},
		{name: "no subject", mutate: func(c *IdentityClaims) { c.Subject = "" }, wantErr: "subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claimsFor(appleIssuer, appleAudience, "001.apple")
			tt.mutate(&c)
			_, err := v.Verify(s.sign(t, c))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("foreign key", func(t *testing.T) {
		other := newSigner(t)
		_, err := v.Verify(other.sign(t, good))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "signature")
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, good).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = v.Verify(tok)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := v.Verify("  ")
		assert.Error(t, err)
	})
}

func TestNewVerifierRequiresConfig(t *testing.T) {
	s := newSigner(t)
	_, err := NewVerifier("", appleAudience, WithKey("", s.pub))
	assert.Error(t, err)
	_, err = NewVerifier(appleIssuer, appleAudience)
	assert.Error(t, err)
}

func TestVerifierFromConfig(t *testing.T) {
	s := newSigner(t)
	der, err := x509.MarshalPKIXPublicKey(s.pub)
	require.NoError(t, err)
	keyPath := filepath.Join(t.TempDir(), "apple.pem")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0600))

	v, err := VerifierFromConfig(config.Provider{
		Issuer:    appleIssuer,
		Audience:  appleAudience,
		PublicKey: keyPath,
	}, WithNow(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	_, err = v.Verify(s.sign(t, claimsFor(appleIssuer, appleAudience, "001.apple")))
	assert.NoError(t, err)

	_, err = VerifierFromConfig(config.Provider{Issuer: appleIssuer, Audience: appleAudience})
	assert.Error(t, err)
}

func TestSignInWithApple(t *testing.T) {
	s := newSigner(t)
	sessions := &memSessions{}
	svc := NewService(
		WithApple(newVerifier(t, appleIssuer, appleAudience, s.pub)),
		WithSessionStore(sessions),
		WithClock(func() time.Time { return fixedNow }),
	)

	var states []State
	svc.Subscribe(func(st State) { states = append(states, st) })
	require.Len(t, states, 1)
	assert.False(t, states[0].Authenticated)

	raw, err := NewNonce()
	require.NoError(t, err)
	c := claimsFor(appleIssuer, appleAudience, "001.apple")
	c.Nonce = HashNonce(raw)
	c.Email = "relay@privaterelay.appleid.com"

	err = svc.SignInWithApple(context.Background(), AppleCredential{
		UserID:        "001.apple",
		IdentityToken: s.sign(t, c),
		FullName:      "  Ada Lovelace ",
	}, raw)
	require.NoError(t, err)

	assert.True(t, svc.IsAuthenticated())
	user := svc.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "001.apple", user.ID)
	assert.Equal(t, "relay@privaterelay.appleid.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, ProviderApple, user.Provider)
	assert.NotEmpty(t, sessions.data)

	require.Len(t, states, 2)
	assert.True(t, states[1].Authenticated)
}

func TestSignInWithAppleRejects(t *testing.T) {
	s := newSigner(t)
	raw := "0123456789abcdefghijklmnopqrstuv"
	valid := claimsFor(appleIssuer, appleAudience, "001.apple")
	valid.Nonce = HashNonce(raw)

	mismatched := valid
	mismatched.Nonce = HashNonce("another nonce")

	tests := []struct {
		name  string
		cred  AppleCredential
		nonce string
	}{
		{name: "missing token", cred: AppleCredential{}, nonce: raw},
		{name: "missing nonce", cred: AppleCredential{IdentityToken: s.sign(t, valid)}, nonce: ""},
		{name: "nonce mismatch", cred: AppleCredential{IdentityToken: s.sign(t, mismatched)}, nonce: raw},
		{name: "user mismatch", cred: AppleCredential{UserID: "002.other", IdentityToken: s.sign(t, valid)}, nonce: raw},
		{name: "bad token", cred: AppleCredential{IdentityToken: "not.a.jwt"}, nonce: raw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(
				WithApple(newVerifier(t, appleIssuer, appleAudience, s.pub)),
				WithSessionStore(&memSessions{}),
			)
			err := svc.SignInWithApple(context.Background(), tt.cred, tt.nonce)
			require.Error(t, err)
			assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthInvalidCredential), "got %v", err)
			assert.False(t, svc.IsAuthenticated())
		})
	}
}

func TestSignInNotConfigured(t *testing.T) {
	svc := NewService(WithSessionStore(&memSessions{}))

	err := svc.SignInWithApple(context.Background(), AppleCredential{IdentityToken: "x"}, "n")
	assert.ErrorIs(t, err, &apperrors.AuthError{Kind: apperrors.AuthProviderNotConfigured})

	err = svc.SignInWithGoogle(context.Background())
	assert.ErrorIs(t, err, &apperrors.AuthError{Kind: apperrors.AuthProviderNotConfigured})
}

func TestSignInSessionSaveFailure(t *testing.T) {
	s := newSigner(t)
	svc := NewService(
		WithApple(newVerifier(t, appleIssuer, appleAudience, s.pub)),
		WithSessionStore(&memSessions{saveErr: errors.New("keyring locked")}),
	)
	raw := "nonce-nonce-nonce-nonce-nonce-no"
	c := claimsFor(appleIssuer, appleAudience, "001.apple")
	c.Nonce = HashNonce(raw)

	err := svc.SignInWithApple(context.Background(), AppleCredential{IdentityToken: s.sign(t, c)}, raw)
	assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthSignInFailed))
	assert.False(t, svc.IsAuthenticated())
}

func TestSignInWithGoogle(t *testing.T) {
	s := newSigner(t)
	verifier := newVerifier(t, googleIssuer, googleClient, s.pub)

	c := claimsFor(googleIssuer, googleClient, "10987654321")
	c.Email = "journaler@gmail.com"
	c.Name = "Grace Hopper"
	token := s.sign(t, c)

	t.Run("success", func(t *testing.T) {
		svc := NewService(
			WithGoogle(verifier, fakeFlow{tokens: GoogleTokens{IDToken: token, AccessToken: "ya29"}}),
			WithSessionStore(&memSessions{}),
		)
		require.NoError(t, svc.SignInWithGoogle(context.Background()))
		user := svc.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, "Grace Hopper", user.Greeting())
		assert.Equal(t, ProviderGoogle, user.Provider)
	})

	t.Run("canceled is not an error", func(t *testing.T) {
		svc := NewService(WithGoogle(verifier, fakeFlow{err: ErrCanceled}), WithSessionStore(&memSessions{}))
		assert.NoError(t, svc.SignInWithGoogle(context.Background()))
		assert.False(t, svc.IsAuthenticated())
	})

	t.Run("no surface", func(t *testing.T) {
		svc := NewService(WithGoogle(verifier, fakeFlow{err: ErrNoSurface}), WithSessionStore(&memSessions{}))
		err := svc.SignInWithGoogle(context.Background())
		assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthNoPresentationSurface))
	})

	t.Run("flow failure", func(t *testing.T) {
		svc := NewService(WithGoogle(verifier, fakeFlow{err: errors.New("network down")}), WithSessionStore(&memSessions{}))
		err := svc.SignInWithGoogle(context.Background())
		assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthSignInFailed))
	})

	t.Run("missing id token", func(t *testing.T) {
		svc := NewService(WithGoogle(verifier, fakeFlow{tokens: GoogleTokens{AccessToken: "ya29"}}), WithSessionStore(&memSessions{}))
		err := svc.SignInWithGoogle(context.Background())
		assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthInvalidCredential))
	})
}

func TestSignOut(t *testing.T) {
	s := newSigner(t)
	c := claimsFor(googleIssuer, googleClient, "10987654321")
	sessions := &memSessions{}
	svc := NewService(
		WithGoogle(newVerifier(t, googleIssuer, googleClient, s.pub), fakeFlow{tokens: GoogleTokens{IDToken: s.sign(t, c)}}),
		WithSessionStore(sessions),
	)

	require.NoError(t, svc.SignOut(context.Background()), "signing out while signed out")
	require.NoError(t, svc.SignInWithGoogle(context.Background()))

	sessions.delErr = errors.New("keyring locked")
	err := svc.SignOut(context.Background())
	assert.True(t, apperrors.IsAuthKind(err, apperrors.AuthSignOutFailed))
	assert.True(t, svc.IsAuthenticated())

	sessions.delErr = nil
	var last State
	unsubscribe := svc.Subscribe(func(st State) { last = st })
	defer unsubscribe()
	require.NoError(t, svc.SignOut(context.Background()))
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.CurrentUser())
	assert.False(t, last.Authenticated)
	assert.Nil(t, sessions.data)
}

func TestRestoreFromKeyring(t *testing.T) {
	gokeyring.MockInit()
	s := newSigner(t)
	c := claimsFor(googleIssuer, googleClient, "10987654321")
	c.Name = "Grace"
	flow := fakeFlow{tokens: GoogleTokens{IDToken: s.sign(t, c)}}
	clock := func() time.Time { return fixedNow }

	first := NewService(WithGoogle(newVerifier(t, googleIssuer, googleClient, s.pub), flow), WithClock(clock))
	require.NoError(t, first.SignInWithGoogle(context.Background()))

	second := NewService(WithClock(clock))
	require.NoError(t, second.Restore(context.Background()))
	require.True(t, second.IsAuthenticated())
	assert.Equal(t, "Grace", second.CurrentUser().DisplayName)

	later := NewService(WithClock(func() time.Time { return fixedNow.Add(2 * time.Hour) }))
	require.NoError(t, later.Restore(context.Background()))
	assert.False(t, later.IsAuthenticated(), "expired session is dropped")

	_, err := keyring.GetSession()
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestRestoreDiscardsGarbage(t *testing.T) {
	sessions := &memSessions{data: []byte("{not json")}
	svc := NewService(WithSessionStore(sessions))

	require.NoError(t, svc.Restore(context.Background()))
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, sessions.data)

	require.NoError(t, NewService(WithSessionStore(&memSessions{})).Restore(context.Background()))
}
