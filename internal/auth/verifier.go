package auth

import (
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maimon495/gratitude/internal/config"
)

// IdentityClaims are the fields read from a provider's ID token.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Nonce string `json:"nonce,omitempty"`
}

// Verifier checks ID tokens from one identity provider.
type Verifier struct {
	issuer   string
	audience string
	keys     map[string]crypto.PublicKey // by kid; "" matches any token
	methods  []string
	now      func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithNow replaces the clock used for exp/nbf/iat checks.
func WithNow(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// WithKey adds a verification key for kid.
func WithKey(kid string, key crypto.PublicKey) VerifierOption {
	return func(v *Verifier) { v.keys[kid] = key }
}

// NewVerifier builds a verifier for tokens issued by issuer to audience.
func NewVerifier(issuer, audience string, opts ...VerifierOption) (*Verifier, error) {
	if strings.TrimSpace(issuer) == "" || strings.TrimSpace(audience) == "" {
		return nil, errors.New("issuer and audience are required")
	}
	v := &Verifier{
		issuer:   issuer,
		audience: audience,
		keys:     make(map[string]crypto.PublicKey),
		methods:  []string{"RS256", "ES256", "EdDSA"},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if len(v.keys) == 0 {
		return nil, errors.New("at least one verification key is required")
	}
	return v, nil
}

// VerifierFromConfig loads the provider's PEM public key.
func VerifierFromConfig(p config.Provider, opts ...VerifierOption) (*Verifier, error) {
	pem, err := config.ReadKey(p.PublicKey)
	if err != nil {
		return nil, err
	}
	key, err := ParsePublicKey(pem)
	if err != nil {
		return nil, err
	}
	return NewVerifier(p.Issuer, p.Audience, append([]VerifierOption{WithKey(p.KeyID, key)}, opts...)...)
}

// ParsePublicKey accepts an RSA, ECDSA or Ed25519 public key in PEM form.
func ParsePublicKey(pem []byte) (crypto.PublicKey, error) {
	if key, err := jwt.ParseRSAPublicKeyFromPEM(pem); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(pem); err == nil {
		return key, nil
	}
	key, err := jwt.ParseEdPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("unsupported public key: %w", err)
	}
	return key, nil
}

// Verify checks the signature, issuer, audience and validity window of
// token and returns its claims.
func (v *Verifier) Verify(token string) (*IdentityClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("identity token is empty")
	}

	var claims IdentityClaims
	_, err := jwt.ParseWithClaims(token, &claims, v.keyFor,
		jwt.WithValidMethods(v.methods),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, describeJWTError(err)
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token has no subject")
	}
	return &claims, nil
}

func (v *Verifier) keyFor(token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	if key, ok := v.keys[""]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("no key for kid %q", kid)
}

func describeJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.New("identity token has expired")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return errors.New("identity token issuer mismatch")
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return errors.New("identity token audience mismatch")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.New("identity token signature is invalid")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("identity token cannot be verified: %w", err)
	default:
		return fmt.Errorf("identity token is invalid: %w", err)
	}
}
