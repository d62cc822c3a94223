package config

import "time"

// SessionConfig contains session token configuration.
//
// The signing key is read once at startup and treated as immutable for the
// lifetime of the process. Every component that signs or verifies tokens
// receives it by injection; there is no lazily initialized global.
type SessionConfig struct {
	// SigningKey is the symmetric HMAC-SHA256 key used to sign session tokens.
	// Required in all environments.
	SigningKey string `env:"SIGNING_KEY,required"`

	// Lifetime is the absolute session lifetime from creation.
	Lifetime time.Duration `env:"LIFETIME" envDefault:"24h"`

	// RefreshWindow is the remaining-TTL threshold under which a validated
	// session is silently reissued with a fresh Lifetime.
	RefreshWindow time.Duration `env:"REFRESH_WINDOW" envDefault:"1h"`

	// NearExpiryWindow is the remaining-TTL threshold under which the session
	// is reported as near expiration. Intentionally wider than RefreshWindow
	// so clients can warn users before the silent refresh boundary.
	NearExpiryWindow time.Duration `env:"NEAR_EXPIRY_WINDOW" envDefault:"2h"`

	// WarningWindow is the remaining-TTL threshold under which polling
	// clients surface an expiration warning to the user.
	WarningWindow time.Duration `env:"WARNING_WINDOW" envDefault:"15m"`

	// CookieName is the name of the session token cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"session"`

	// CSRFCookieName is the name of the CSRF token cookie paired with the session.
	CSRFCookieName string `env:"CSRF_COOKIE_NAME" envDefault:"csrf-token"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Lifetime <= 0 {
		s.Lifetime = 24 * time.Hour
	}
	if s.RefreshWindow <= 0 || s.RefreshWindow >= s.Lifetime {
		s.RefreshWindow = time.Hour
	}
	// Near-expiry must stay wider than the refresh window to keep the
	// warn-before-refresh ordering.
	if s.NearExpiryWindow <= s.RefreshWindow {
		s.NearExpiryWindow = 2 * s.RefreshWindow
	}
	if s.WarningWindow <= 0 {
		s.WarningWindow = 15 * time.Minute
	}
	if s.CookieName == "" {
		s.CookieName = "session"
	}
	if s.CSRFCookieName == "" {
		s.CSRFCookieName = "csrf-token"
	}
}

// LoginConfig contains credential verification configuration.
type LoginConfig struct {
	// BcryptCost is the bcrypt cost factor for password hashing.
	// Values below 12 are clamped up; stored hashes carry their own cost,
	// so this only affects newly written hashes.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// minBcryptCost is the floor for password hashing cost.
const minBcryptCost = 12

// Sanitize applies guardrails to login configuration values.
func (l *LoginConfig) Sanitize() {
	if l.BcryptCost < minBcryptCost {
		l.BcryptCost = minBcryptCost
	}
	// bcrypt rejects costs above 31; clamp rather than fail at hash time.
	if l.BcryptCost > 31 {
		l.BcryptCost = 31
	}
}
