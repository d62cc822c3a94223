package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/domain/auth"
)

// Denylist is an optional revocation check consulted during validation.
// The session itself stays cookie-encoded and stateless; the denylist only
// records session IDs that must die before their natural expiry (logout,
// rotation). A nil Denylist degrades to pure-stateless behavior.
type Denylist interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
}

// ManagerOptions groups dependencies for Manager.
type ManagerOptions struct {
	Codec  *Codec
	Config config.SessionConfig

	// CookieDomain scopes the session cookies. Empty means request domain.
	CookieDomain string
	// SecureCookies marks cookies Secure. Disabled in dev so plain-HTTP
	// localhost keeps working.
	SecureCookies bool

	// Denylist is optional (see Denylist).
	Denylist Denylist
	Logger   *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Manager produces, authenticates, and ages out session tokens.
//
// All public operations return results instead of panicking across the
// boundary, and every validation failure except a missing cookie clears
// both cookies on the outgoing response — Validate is not read-only.
type Manager struct {
	codec    *Codec
	cfg      config.SessionConfig
	domain   string
	secure   bool
	denylist Denylist
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager constructs a Manager.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Codec == nil {
		return nil, errors.New("session codec is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		codec:    opts.Codec,
		cfg:      opts.Config,
		domain:   opts.CookieDomain,
		secure:   opts.SecureCookies,
		denylist: opts.Denylist,
		logger:   logger,
		now:      now,
	}, nil
}

// Created is returned by Create so callers can report the issued session
// without re-decoding the cookie they just wrote.
type Created struct {
	SessionID string
	CSRFToken string
	// Session is the claims snapshot that was signed into the cookie,
	// including the fresh ExpiresAt.
	Session auth.Session
}

// CreateParams groups inputs for Create.
type CreateParams struct {
	UserID string
	Role   auth.Role
	// SessionID is optional; a new 256-bit random hex ID is generated when empty.
	SessionID string
}

// Create issues a new session token and its paired CSRF token, setting both
// cookies on the response with expiry = now + configured lifetime.
// The only error path is signing/entropy failure, which is unexpected.
func (m *Manager) Create(w http.ResponseWriter, p CreateParams) (Created, error) {
	if p.UserID == "" {
		return Created{}, errors.New("user id is required")
	}
	if !p.Role.Valid() {
		return Created{}, fmt.Errorf("invalid role %q", p.Role)
	}

	sessionID := p.SessionID
	if sessionID == "" {
		var err error
		if sessionID, err = NewRandomToken(); err != nil {
			return Created{}, err
		}
	}
	csrfToken, err := NewRandomToken()
	if err != nil {
		return Created{}, err
	}

	now := m.now()
	sess := auth.Session{
		UserID:    p.UserID,
		Role:      p.Role,
		SessionID: sessionID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.cfg.Lifetime),
	}

	token, err := m.codec.Encode(sess)
	if err != nil {
		return Created{}, fmt.Errorf("sign session token: %w", err)
	}

	m.setCookie(w, m.cfg.CookieName, token, sess.ExpiresAt, true)
	m.setCookie(w, m.cfg.CSRFCookieName, csrfToken, sess.ExpiresAt, false)

	return Created{SessionID: sessionID, CSRFToken: csrfToken, Session: sess}, nil
}

// Validate reads and verifies the session cookie.
//
// Failure classification:
//   - no cookie: SESSION_MISSING
//   - signature mismatch or revoked: SESSION_INVALID
//   - unreadable token or missing required fields: SESSION_MALFORMED
//   - past expiry: SESSION_EXPIRED
//
// Every failure except SESSION_MISSING clears both cookies on w.
func (m *Manager) Validate(w http.ResponseWriter, r *http.Request) (auth.Session, *Error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return auth.Session{}, ErrMissing()
	}

	sess, err := m.codec.Decode(cookie.Value)
	if err != nil {
		m.Delete(w)
		if errors.Is(err, ErrBadSignature) {
			return auth.Session{}, ErrInvalid()
		}
		// Unrecognized decode failures classify as malformed.
		return auth.Session{}, ErrMalformed()
	}

	// A decoded session missing its principal (or otherwise breaking the
	// invariants) is malformed, not merely absent.
	if err := sess.Validate(); err != nil {
		m.Delete(w)
		return auth.Session{}, ErrMalformed()
	}

	if sess.ExpiredAt(m.now()) {
		m.Delete(w)
		return auth.Session{}, ErrExpired()
	}

	if m.denylist != nil {
		revoked, err := m.denylist.IsRevoked(r.Context(), sess.SessionID)
		if err != nil {
			// Revocation is a best-effort supplement to the stateless core;
			// an unreachable denylist must not log everyone out.
			m.logger.WarnContext(r.Context(), "session denylist check failed", "error", err)
		} else if revoked {
			m.Delete(w)
			return auth.Session{}, ErrInvalid()
		}
	}

	return sess, nil
}

// RefreshIfNeeded implements the passive-renewal policy: a valid session
// within its last refresh window is reissued with a fresh lifetime, a new
// session ID, and a new CSRF token. Sessions accessed earlier than that are
// left alone, so an abandoned-but-cookie-present session cannot extend
// itself indefinitely. On refresh the reissued session is returned so
// callers report the new expiry, not the one from the superseded cookie.
func (m *Manager) RefreshIfNeeded(w http.ResponseWriter, r *http.Request) (auth.Session, bool, error) {
	sess, serr := m.Validate(w, r)
	if serr != nil {
		return auth.Session{}, false, nil
	}
	if sess.TTLAt(m.now()) >= m.cfg.RefreshWindow {
		return auth.Session{}, false, nil
	}

	created, err := m.Create(w, CreateParams{UserID: sess.UserID, Role: sess.Role})
	if err != nil {
		return auth.Session{}, false, fmt.Errorf("refresh session: %w", err)
	}
	return created.Session, true, nil
}

// IsNearExpiration reports whether the session is invalid or inside the
// near-expiry window. The window is wider than the refresh window so a UI
// warning shows before the silent refresh boundary.
func (m *Manager) IsNearExpiration(w http.ResponseWriter, r *http.Request) bool {
	sess, serr := m.Validate(w, r)
	if serr != nil {
		return true
	}
	return sess.TTLAt(m.now()) < m.cfg.NearExpiryWindow
}

// Rotate reissues the current session under a brand-new session ID,
// preserving the identity attributes. Used after privilege-sensitive
// operations to limit the blast radius of a leaked token. The old session
// ID is revoked when a denylist is configured. Returns false when no valid
// session existed.
func (m *Manager) Rotate(w http.ResponseWriter, r *http.Request) (bool, error) {
	sess, serr := m.Validate(w, r)
	if serr != nil {
		return false, nil
	}

	if _, err := m.Create(w, CreateParams{UserID: sess.UserID, Role: sess.Role}); err != nil {
		return false, fmt.Errorf("rotate session: %w", err)
	}
	m.revoke(r.Context(), sess)
	return true, nil
}

// Revoke marks the given session dead in the denylist for its remaining
// lifetime. No-op without a denylist.
func (m *Manager) Revoke(ctx context.Context, sess auth.Session) {
	m.revoke(ctx, sess)
}

func (m *Manager) revoke(ctx context.Context, sess auth.Session) {
	if m.denylist == nil {
		return
	}
	ttl := sess.TTLAt(m.now())
	if ttl <= 0 {
		return
	}
	if err := m.denylist.Revoke(ctx, sess.SessionID, ttl); err != nil {
		m.logger.WarnContext(ctx, "session revoke failed", "session_id", sess.SessionID, "error", err)
	}
}

// Delete clears both cookies by expiring them. Idempotent — safe to call
// when no session exists.
func (m *Manager) Delete(w http.ResponseWriter) {
	epoch := time.Unix(0, 0)
	m.clearCookie(w, m.cfg.CookieName, epoch, true)
	m.clearCookie(w, m.cfg.CSRFCookieName, epoch, false)
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, expires time.Time, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.domain,
		Expires:  expires,
		HttpOnly: httpOnly,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter, name string, epoch time.Time, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   m.domain,
		Expires:  epoch,
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
