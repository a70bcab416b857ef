package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// nonceCharset is the alphabet for raw nonces. It has no 'W'.
const nonceCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVXYZabcdefghijklmnopqrstuvwxyz-._"

// NonceLength is the length of a raw nonce.
const NonceLength = 32

var randRead = rand.Read

// NewNonce returns a random raw nonce. The provider receives HashNonce of
// it and echoes the hash back in the identity token.
func NewNonce() (string, error) {
	buf := make([]byte, NonceLength)
	if _, err := randRead(buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	out := make([]byte, NonceLength)
	for i, b := range buf {
		out[i] = nonceCharset[int(b)%len(nonceCharset)]
	}
	return string(out), nil
}

// HashNonce returns the lowercase hex SHA-256 of raw.
func HashNonce(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
