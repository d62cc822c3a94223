package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopmill/admin-api/internal/data"
	"github.com/shopmill/admin-api/internal/domain/auth"
	"github.com/shopmill/admin-api/internal/ports"
	"github.com/shopmill/admin-api/internal/session"
)

// ErrLoginFailed is the single failure the login path ever reports. An
// unknown email and a wrong password both map here so the endpoint cannot
// be used to enumerate admin accounts.
var ErrLoginFailed = errors.New("login failed")

// dummyHash is a valid bcrypt hash compared against when the email lookup
// misses, so both failure branches cost one bcrypt comparison.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    ports.UserRepository
	Sessions *session.Manager
	Logger   *slog.Logger
}

// AuthService orchestrates credential login and session lifecycle on top of
// the session manager.
type AuthService struct {
	users    ports.UserRepository
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Users == nil {
		return nil, errors.New("user repository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    opts.Users,
		sessions: opts.Sessions,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	User      auth.User
	SessionID string
	CSRFToken string
}

// Login authenticates an admin by email and password and, on success, issues
// the session and CSRF cookies on w. All authentication failures return
// ErrLoginFailed; callers must not leak which step failed.
func (s *AuthService) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		// Burn a comparison anyway so the cheap rejection is not observable.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrLoginFailed
	}

	user, err := s.users.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrLoginFailed
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrLoginFailed
	}

	created, err := s.sessions.Create(w, session.CreateParams{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", "user_id", user.ID, "session_id", created.SessionID)
	return &LoginResult{
		User:      user,
		SessionID: created.SessionID,
		CSRFToken: created.CSRFToken,
	}, nil
}

// CheckResult is the outcome of a session check.
type CheckResult struct {
	Authenticated bool
	Session       auth.Session
	Refreshed     bool
	// SessionError carries the taxonomy code when Authenticated is false.
	SessionError *session.Error
}

// CheckSession validates the presented session, verifies the principal still
// exists, and applies the passive refresh policy. It returns an error only
// for infrastructure failures; authentication failures land in the result.
func (s *AuthService) CheckSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (CheckResult, error) {
	sess, serr := s.sessions.Validate(w, r)
	if serr != nil {
		return CheckResult{SessionError: serr}, nil
	}

	exists, err := s.users.Exists(ctx, sess.UserID)
	if err != nil {
		return CheckResult{}, fmt.Errorf("check principal: %w", err)
	}
	if !exists {
		// Token still verifies, but the account behind it is gone.
		s.sessions.Delete(w)
		return CheckResult{SessionError: session.ErrUserNotFound()}, nil
	}

	fresh, refreshed, err := s.sessions.RefreshIfNeeded(w, r)
	if err != nil {
		return CheckResult{}, err
	}
	if refreshed {
		// Report the reissued claims: the cookie on w already carries the
		// new expiry, and the polling client keys its warning on it.
		sess = fresh
	}

	return CheckResult{Authenticated: true, Session: sess, Refreshed: refreshed}, nil
}

// ForceRefresh reissues the session regardless of remaining TTL. Used by the
// manual "extend session" action in the expiry warning.
func (s *AuthService) ForceRefresh(ctx context.Context, w http.ResponseWriter, r *http.Request) (CheckResult, error) {
	sess, serr := s.sessions.Validate(w, r)
	if serr != nil {
		return CheckResult{SessionError: serr}, nil
	}

	exists, err := s.users.Exists(ctx, sess.UserID)
	if err != nil {
		return CheckResult{}, fmt.Errorf("check principal: %w", err)
	}
	if !exists {
		s.sessions.Delete(w)
		return CheckResult{SessionError: session.ErrUserNotFound()}, nil
	}

	created, err := s.sessions.Create(w, session.CreateParams{UserID: sess.UserID, Role: sess.Role})
	if err != nil {
		return CheckResult{}, fmt.Errorf("refresh session: %w", err)
	}
	s.sessions.Revoke(ctx, sess)

	return CheckResult{Authenticated: true, Session: created.Session, Refreshed: true}, nil
}

// RotateSession reissues the current session under a new session ID,
// revoking the old one. Returns false when no valid session existed.
func (s *AuthService) RotateSession(w http.ResponseWriter, r *http.Request) (bool, error) {
	return s.sessions.Rotate(w, r)
}

// Logout ends the session: the old session ID is denylisted so a captured
// copy of the token dies with the logout, and both cookies are cleared.
// Always succeeds; logging out without a session is a no-op.
func (s *AuthService) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if sess, serr := s.sessions.Validate(w, r); serr == nil {
		s.sessions.Revoke(ctx, sess)
		s.logger.InfoContext(ctx, "admin logged out", "user_id", sess.UserID, "session_id", sess.SessionID)
	}
	s.sessions.Delete(w)
}
