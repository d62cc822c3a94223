package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// Session is the authenticated state carried inside the signed token.
// Nothing here is persisted server-side: the cookie the client presents is
// the single source of truth. SessionID exists for revocation/audit
// correlation, not as a storage lookup key.
type Session struct {
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	SessionID string    `json:"sessionId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expires"`
}

var (
	// ErrMissingUserID is returned when a decoded session carries no principal.
	ErrMissingUserID = errors.New("session missing user id")
	// ErrInvalidRole is returned when a session carries an unknown role.
	ErrInvalidRole = errors.New("session role is invalid")
	// ErrInvalidExpiry is returned when expiry is not strictly after issuance.
	ErrInvalidExpiry = errors.New("session expiry must be after issuance")
)

// Validate checks the session invariants: a principal must be present, the
// role must be enumerated, and expiry must be strictly later than issuance.
// A session failing these checks is malformed rather than merely absent.
func (s Session) Validate() error {
	if s.UserID == "" {
		return ErrMissingUserID
	}
	if !s.Role.Valid() {
		return ErrInvalidRole
	}
	if !s.ExpiresAt.After(s.IssuedAt) {
		return ErrInvalidExpiry
	}
	return nil
}

// ExpiredAt reports whether the session is invalid at the given instant.
// Expiry is inclusive: a session is expired at exactly ExpiresAt.
func (s Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TTLAt returns the remaining lifetime at the given instant.
// Negative values mean the session is already expired.
func (s Session) TTLAt(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// User is the stored admin user record the login path authenticates against.
// PasswordHash is a bcrypt hash and never leaves the data layer.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
