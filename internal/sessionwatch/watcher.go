// Package sessionwatch polls the admin session endpoint and surfaces
// lifecycle transitions to the embedding program: loss of authentication
// and approaching expiry. It is the Go counterpart of the browser-side
// session context.
package sessionwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// State is the watcher's view of the session.
type State string

const (
	// StateUnknown is the initial state before the first check completes.
	StateUnknown State = "unknown"
	// StateChecking is the transient state while a check is in flight.
	StateChecking State = "checking"
	// StateAuthenticated means the last check confirmed a valid session.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated is terminal: once entered the watcher never
	// transitions back. Recovery requires a fresh login round-trip and a
	// new watcher.
	StateUnauthenticated State = "unauthenticated"
)

const (
	defaultCheckInterval   = 5 * time.Minute
	defaultWarningInterval = 60 * time.Second
	defaultWarningWindow   = 15 * time.Minute
	defaultCloseTimeout    = 5 * time.Second
)

// SessionStatus is the decoded session endpoint response.
type SessionStatus struct {
	Success       bool            `json:"success"`
	Authenticated bool            `json:"authenticated"`
	Session       *SessionDetails `json:"session"`
	Refreshed     bool            `json:"sessionRefreshed"`
	Error         *SessionError   `json:"error"`
}

// SessionDetails carries the claims the endpoint exposes.
type SessionDetails struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires"`
}

// SessionError is the taxonomy error attached to failed checks.
type SessionError struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	RequiresReauth bool   `json:"requiresReauth"`
}

// WatcherOptions holds the dependencies for creating a Watcher.
type WatcherOptions struct {
	// BaseURL is the admin API origin, e.g. "https://admin.example.com".
	BaseURL string
	// HTTPClient must carry the session cookies (a cookie jar populated by
	// the login round-trip).
	HTTPClient *http.Client

	CheckInterval   time.Duration
	WarningInterval time.Duration
	// WarningWindow is the remaining-TTL threshold below which
	// OnExpiryWarning fires.
	WarningWindow time.Duration

	// OnUnauthenticated fires exactly once, when the watcher enters its
	// terminal state. The redirect-to-login decision belongs to the caller.
	OnUnauthenticated func(serr *SessionError)
	// OnExpiryWarning fires at most once per session horizon when the
	// remaining TTL drops below WarningWindow.
	OnExpiryWarning func(remaining time.Duration)

	Logger *slog.Logger
	Now    func() time.Time
}

// Watcher polls GET /api/auth/session on two independent tickers: a slow
// check loop that also drives passive server-side refresh, and a fast
// warning loop that watches the remaining TTL between checks.
type Watcher struct {
	baseURL         string
	client          *http.Client
	checkInterval   time.Duration
	warningInterval time.Duration
	warningWindow   time.Duration

	onUnauthenticated func(*SessionError)
	onExpiryWarning   func(time.Duration)

	logger *slog.Logger
	now    func() time.Time

	mu            sync.Mutex
	state         State
	expiresAt     time.Time
	warnedHorizon time.Time

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher. Start must be called to begin polling.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is required")
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = defaultCheckInterval
	}
	if opts.WarningInterval <= 0 {
		opts.WarningInterval = defaultWarningInterval
	}
	if opts.WarningWindow <= 0 {
		opts.WarningWindow = defaultWarningWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Watcher{
		baseURL:           strings.TrimRight(opts.BaseURL, "/"),
		client:            opts.HTTPClient,
		checkInterval:     opts.CheckInterval,
		warningInterval:   opts.WarningInterval,
		warningWindow:     opts.WarningWindow,
		onUnauthenticated: opts.OnUnauthenticated,
		onExpiryWarning:   opts.OnExpiryWarning,
		logger:            logger.With("component", "sessionwatch"),
		now:               now,
		state:             StateUnknown,
		done:              make(chan struct{}),
	}, nil
}

// State returns the watcher's current view of the session.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start runs an immediate check and launches the two ticker loops. The
// loops stop when ctx is cancelled, Close is called, or the watcher
// reaches its terminal state.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	w.started = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	if _, err := w.Check(ctx); err != nil {
		w.logger.WarnContext(ctx, "initial session check failed", "error", err)
	}

	w.wg.Add(2)
	go w.checkLoop(ctx)
	go w.warningLoop(ctx)
	return nil
}

// Close fires one best-effort final check, then cancels both loops and
// waits for them to exit. Safe to call once after Start.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel == nil {
		return errors.New("watcher not started")
	}

	ctx, cancelFinal := context.WithTimeout(context.Background(), defaultCloseTimeout)
	defer cancelFinal()
	if _, err := w.Check(ctx); err != nil {
		w.logger.Warn("final session check failed", "error", err)
	}

	cancel()
	w.wg.Wait()
	return nil
}

// Done is closed when the watcher enters the terminal unauthenticated state.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) checkLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				w.logger.WarnContext(ctx, "session check failed", "error", err)
			}
		}
	}
}

func (w *Watcher) warningLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.warningInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			w.maybeWarn()
		}
	}
}

// maybeWarn fires the expiry warning when the tracked TTL drops below the
// window, at most once per session horizon. A refresh moves the horizon
// and re-arms the warning.
func (w *Watcher) maybeWarn() {
	w.mu.Lock()
	if w.state != StateAuthenticated || w.expiresAt.IsZero() {
		w.mu.Unlock()
		return
	}
	remaining := w.expiresAt.Sub(w.now())
	if remaining >= w.warningWindow || w.warnedHorizon.Equal(w.expiresAt) {
		w.mu.Unlock()
		return
	}
	w.warnedHorizon = w.expiresAt
	cb := w.onExpiryWarning
	w.mu.Unlock()

	w.logger.Info("session nearing expiry", "remaining", remaining)
	if cb != nil {
		cb(remaining)
	}
}

// Check performs one poll of the session endpoint and applies the state
// transition. Overlapping checks are harmless: validation is read-mostly
// and server-side refresh is idempotent. Transport failures leave the
// state untouched; only a definitive unauthenticated response is terminal.
func (w *Watcher) Check(ctx context.Context) (*SessionStatus, error) {
	w.mu.Lock()
	if w.state == StateUnauthenticated {
		w.mu.Unlock()
		return nil, errors.New("watcher is unauthenticated")
	}
	prev := w.state
	w.state = StateChecking
	w.mu.Unlock()

	status, err := w.fetchStatus(ctx)
	if err != nil {
		// Network trouble is not evidence the session died.
		w.restoreState(prev)
		return nil, err
	}

	if !status.Authenticated {
		w.becomeUnauthenticated(status.Error)
		return status, nil
	}

	w.mu.Lock()
	w.state = StateAuthenticated
	if status.Session != nil {
		w.expiresAt = status.Session.ExpiresAt
	}
	w.mu.Unlock()
	return status, nil
}

// ExtendSession asks the server to reissue the session regardless of
// remaining TTL. Intended as the action behind the expiry warning.
func (w *Watcher) ExtendSession(ctx context.Context) (*SessionStatus, error) {
	body := strings.NewReader(`{"action":"refresh"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/api/auth/session", body)
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, err := w.doStatusRequest(req)
	if err != nil {
		return nil, err
	}
	if !status.Authenticated {
		w.becomeUnauthenticated(status.Error)
		return status, nil
	}

	w.mu.Lock()
	w.state = StateAuthenticated
	if status.Session != nil {
		w.expiresAt = status.Session.ExpiresAt
	}
	w.mu.Unlock()
	return status, nil
}

func (w *Watcher) fetchStatus(ctx context.Context) (*SessionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/api/auth/session", nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	return w.doStatusRequest(req)
}

func (w *Watcher) doStatusRequest(req *http.Request) (*SessionStatus, error) {
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	// 401/403 still carry the taxonomy body; anything else is transport-level.
	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized, http.StatusForbidden:
	default:
		return nil, fmt.Errorf("session endpoint returned status %d", resp.StatusCode)
	}

	var status SessionStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	return &status, nil
}

func (w *Watcher) restoreState(prev State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateChecking {
		w.state = prev
	}
}

// becomeUnauthenticated applies the one-way transition and fires the
// callback exactly once.
func (w *Watcher) becomeUnauthenticated(serr *SessionError) {
	w.mu.Lock()
	if w.state == StateUnauthenticated {
		w.mu.Unlock()
		return
	}
	w.state = StateUnauthenticated
	cb := w.onUnauthenticated
	close(w.done)
	w.mu.Unlock()

	code := ""
	if serr != nil {
		code = serr.Code
	}
	w.logger.Info("session no longer authenticated", "code", code)
	if cb != nil {
		cb(serr)
	}
}
