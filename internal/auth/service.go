// Package auth tracks whether the user is signed in and exchanges provider
// credentials for a persisted session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/keyring"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/models"
)

const (
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)

// ErrCanceled is returned by a GoogleFlow when the user backs out.
// The service treats it as a no-op.
var ErrCanceled = errors.New("sign-in canceled")

// ErrNoSurface is returned by a GoogleFlow that has nowhere to prompt.
var ErrNoSurface = errors.New("no interactive surface")

// AppleCredential is what Sign in with Apple hands back.
type AppleCredential struct {
	UserID        string
	IdentityToken string
	Email         string
	FullName      string
}

// GoogleTokens is the result of a Google sign-in.
type GoogleTokens struct {
	IDToken     string
	AccessToken string
}

// GoogleFlow runs the interactive part of Google sign-in.
type GoogleFlow interface {
	SignIn(ctx context.Context) (GoogleTokens, error)
}

// SessionStore persists the encoded session between runs.
type SessionStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Delete() error
}

// State is delivered to listeners whenever the signed-in user changes.
type State struct {
	Authenticated bool
	User          *models.User
}

// Session is what gets persisted.
type Session struct {
	User      models.User `json:"user"`
	IDToken   string      `json:"id_token"`
	SignedIn  time.Time   `json:"signed_in"`
	ExpiresAt time.Time   `json:"expires_at,omitempty"`
}

// Service is the auth gate. A nil verifier means that provider is not
// configured.
type Service struct {
	apple    *Verifier
	google   *Verifier
	flow     GoogleFlow
	sessions SessionStore
	now      func() time.Time

	mu      sync.RWMutex
	session *Session

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// Option configures a Service.
type Option func(*Service)

// WithApple enables Sign in with Apple.
func WithApple(v *Verifier) Option {
	return func(s *Service) { s.apple = v }
}

// WithGoogle enables Google sign-in.
func WithGoogle(v *Verifier, flow GoogleFlow) Option {
	return func(s *Service) {
		s.google = v
		s.flow = flow
	}
}

// WithSessionStore replaces the keyring-backed session store.
func WithSessionStore(store SessionStore) Option {
	return func(s *Service) { s.sessions = store }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a signed-out service. Call Restore to pick up a
// previous session.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: KeyringSessions{},
		now:      time.Now,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsAuthenticated reports whether a user is signed in.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

// Restore loads a persisted session. A missing, unreadable or expired
// session leaves the service signed out.
func (s *Service) Restore(ctx context.Context) error {
	data, err := s.sessions.Load()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.User.ID == "" {
		logger.Warn("Discarding unreadable session")
		_ = s.sessions.Delete()
		return nil
	}
	if !sess.ExpiresAt.IsZero() && !sess.ExpiresAt.After(s.now()) {
		logger.Info("Stored session has expired", "user", sess.User.ID)
		_ = s.sessions.Delete()
		return nil
	}

	s.setSession(&sess)
	return nil
}

// SignInWithApple verifies the Apple identity token against rawNonce.
func (s *Service) SignInWithApple(ctx context.Context, cred AppleCredential, rawNonce string) error {
	if s.apple == nil {
		return apperrors.NewAuthError(apperrors.AuthProviderNotConfigured, "Sign in with Apple", nil)
	}
	if strings.TrimSpace(cred.IdentityToken) == "" {
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "missing identity token", nil)
	}
	if rawNonce == "" {
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "no sign-in request was started", nil)
	}

	claims, err := s.apple.Verify(cred.IdentityToken)
	if err != nil {
		logger.Warn("Apple identity token rejected", "error", err)
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "", err)
	}
	if claims.Nonce != HashNonce(rawNonce) {
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "nonce mismatch", nil)
	}
	if cred.UserID != "" && cred.UserID != claims.Subject {
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "user mismatch", nil)
	}

	user := models.User{
		ID:          claims.Subject,
		Email:       firstNonEmpty(claims.Email, cred.Email),
		DisplayName: strings.TrimSpace(cred.FullName),
		Provider:    ProviderApple,
	}
	return s.signIn(user, cred.IdentityToken, claims)
}

// SignInWithGoogle runs the Google flow. Cancelling it is not an error.
func (s *Service) SignInWithGoogle(ctx context.Context) error {
	if s.google == nil || s.flow == nil {
		return apperrors.NewAuthError(apperrors.AuthProviderNotConfigured, "Google sign-in", nil)
	}

	tokens, err := s.flow.SignIn(ctx)
	switch {
	case errors.Is(err, ErrCanceled):
		logger.Info("Google sign-in canceled")
		return nil
	case errors.Is(err, ErrNoSurface):
		return apperrors.NewAuthError(apperrors.AuthNoPresentationSurface, "", err)
	case err != nil:
		return apperrors.NewAuthError(apperrors.AuthSignInFailed, "", err)
	}
	if strings.TrimSpace(tokens.IDToken) == "" {
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "missing ID token", nil)
	}

	claims, err := s.google.Verify(tokens.IDToken)
	if err != nil {
		logger.Warn("Google ID token rejected", "error", err)
		return apperrors.NewAuthError(apperrors.AuthInvalidCredential, "", err)
	}

	user := models.User{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Provider:    ProviderGoogle,
	}
	return s.signIn(user, tokens.IDToken, claims)
}

func (s *Service) signIn(user models.User, token string, claims *IdentityClaims) error {
	sess := &Session{User: user, IDToken: token, SignedIn: s.now()}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return apperrors.NewAuthError(apperrors.AuthSignInFailed, "encoding session", err)
	}
	if err := s.sessions.Save(data); err != nil {
		logger.Error("Failed to persist session", "error", err)
		return apperrors.NewAuthError(apperrors.AuthSignInFailed, "saving session", err)
	}

	logger.Info("Signed in", "provider", user.Provider, "user", user.ID)
	s.setSession(sess)
	return nil
}

// SignOut forgets the session. Signing out while signed out is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return nil
	}
	if err := s.sessions.Delete(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return apperrors.NewAuthError(apperrors.AuthSignOutFailed, "", err)
	}
	logger.Info("Signed out")
	s.setSession(nil)
	return nil
}

// Subscribe registers fn for state changes and calls it once with the
// current state. The returned func removes the subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	fn(s.state())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) state() State {
	user := s.CurrentUser()
	return State{Authenticated: user != nil, User: user}
}

func (s *Service) setSession(sess *Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	st := s.state()

	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// KeyringSessions stores the session in the OS keyring.
type KeyringSessions struct{}

func (KeyringSessions) Load() ([]byte, error)  { return keyring.GetSession() }
func (KeyringSessions) Save(data []byte) error { return keyring.SetSession(data) }
func (KeyringSessions) Delete() error          { return keyring.DeleteSession() }
