package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of session and CSRF tokens (256 bits).
const tokenBytes = 32

// NewRandomToken generates a 256-bit random hex token. Used for both session
// identifiers and CSRF tokens. Fails closed: random generation errors are
// returned, never papered over with a predictable value.
func NewRandomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// VerifyCSRFToken compares a submitted CSRF token against the stored one in
// constant time. Mismatched lengths are rejected up front without a
// per-character comparison; equal-length inputs take time independent of
// where they first differ.
func VerifyCSRFToken(submitted, stored string) bool {
	if stored == "" || len(submitted) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
