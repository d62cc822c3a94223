package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopmill/admin-api/internal/domain/auth"
	"github.com/shopmill/admin-api/internal/service"
)

// loginFailedMessage is the single message every login failure returns.
// Wrong password and unknown email must be indistinguishable to the caller.
const loginFailedMessage = "Login failed"

// AuthHandlers provides HTTP handlers for the authentication endpoints.
type AuthHandlers struct {
	Svc    *service.AuthService
	Logger *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPayload struct {
	UserID    string    `json:"userId"`
	Role      auth.Role `json:"role"`
	ExpiresAt time.Time `json:"expires"`
}

type sessionResponse struct {
	Success          bool            `json:"success"`
	Authenticated    bool            `json:"authenticated"`
	Session          *sessionPayload `json:"session,omitempty"`
	SessionRefreshed bool            `json:"sessionRefreshed,omitempty"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), w, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginFailed) {
			WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   loginFailedMessage,
			})
			return
		}
		h.logError(r, "login failed", err)
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
			"role":  result.User.Role,
		},
	})
}

// Logout handles POST /api/auth/logout. Always 200; logging out twice is fine.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Svc.Logout(r.Context(), w, r)
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GetSession handles GET /api/auth/session. Checking the session is not
// read-only: a session inside its refresh window comes back reissued, and a
// dead one comes back with cleared cookies.
func (h *AuthHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.CheckSession(r.Context(), w, r)
	if err != nil {
		h.logError(r, "session check failed", err)
		WriteDomainError(w, err)
		return
	}
	h.writeCheckResult(w, result)
}

type sessionActionRequest struct {
	Action string `json:"action"`
}

// PostSession handles POST /api/auth/session. The only supported action is
// "refresh", which reissues the session regardless of remaining TTL.
func (h *AuthHandlers) PostSession(w http.ResponseWriter, r *http.Request) {
	var req sessionActionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Action != "refresh" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_action",
			Err:     errors.New("unsupported session action"),
		})
		return
	}

	result, err := h.Svc.ForceRefresh(r.Context(), w, r)
	if err != nil {
		h.logError(r, "session refresh failed", err)
		WriteDomainError(w, err)
		return
	}
	h.writeCheckResult(w, result)
}

func (h *AuthHandlers) writeCheckResult(w http.ResponseWriter, result service.CheckResult) {
	if !result.Authenticated {
		WriteSessionError(w, result.SessionError)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{
		Success:       true,
		Authenticated: true,
		Session: &sessionPayload{
			UserID:    result.Session.UserID,
			Role:      result.Session.Role,
			ExpiresAt: result.Session.ExpiresAt,
		},
		SessionRefreshed: result.Refreshed,
	})
}

func (h *AuthHandlers) logError(r *http.Request, msg string, err error) {
	if h.Logger != nil {
		h.Logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
