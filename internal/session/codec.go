package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopmill/admin-api/internal/domain/auth"
)

// Typed decode failures. Callers classify these instead of inspecting error
// text; anything else coming out of Decode is treated as malformed.
var (
	// ErrBadSignature is returned when the token signature does not verify.
	ErrBadSignature = errors.New("session token signature mismatch")
	// ErrTokenMalformed is returned when the token structure or payload is unreadable.
	ErrTokenMalformed = errors.New("session token malformed")
)

// Codec signs and verifies session tokens.
//
// Token format: base64url(JSON claims) + "." + base64url(HMAC-SHA256).
// The signature covers the encoded claims bytes. The key is process-wide,
// immutable, and injected at construction.
type Codec struct {
	key []byte
}

// NewCodec creates a Codec with the given symmetric signing key.
func NewCodec(signingKey string) (*Codec, error) {
	if signingKey == "" {
		return nil, errors.New("session signing key is required")
	}
	return &Codec{key: []byte(signingKey)}, nil
}

// Encode serializes and signs the session into a token string.
func (c *Codec) Encode(sess auth.Session) (string, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session claims: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.sign(encoded), nil
}

// Decode verifies the token signature and parses the claims.
// It performs no semantic validation (expiry, role, principal) — that is
// the Manager's job; Decode only answers "is this token authentic and readable".
func (c *Codec) Decode(token string) (auth.Session, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return auth.Session{}, ErrTokenMalformed
	}

	if !hmac.Equal([]byte(c.sign(encoded)), []byte(sig)) {
		return auth.Session{}, ErrBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return auth.Session{}, ErrTokenMalformed
	}

	var sess auth.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return auth.Session{}, ErrTokenMalformed
	}

	return sess, nil
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
