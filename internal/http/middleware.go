package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/shopmill/admin-api/internal/domain/auth"
	"github.com/shopmill/admin-api/internal/service"
	"github.com/shopmill/admin-api/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
// Every request gets a generated request ID echoed in the X-Request-Id header.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()
			w.Header().Set("X-Request-Id", requestID)

			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns a middleware guarding admin-only routes. The full
// session check runs on every request — validation, principal existence,
// passive refresh — so sessions age forward while the admin works.
//
// Failure mapping: any taxonomy code except INSUFFICIENT_PERMISSIONS is an
// authentication failure (401, requiresReauth); a valid session with a
// non-admin role is an authorization failure (403, no reauth prompt, since
// logging in again would not change the role).
func RequireAdmin(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := authSvc.CheckSession(r.Context(), w, r)
			if err != nil {
				WriteDomainError(w, err)
				return
			}
			if !result.Authenticated {
				WriteSessionError(w, result.SessionError)
				return
			}
			if result.Session.Role != auth.RoleAdmin {
				WriteSessionError(w, session.ErrInsufficientPermissions())
				return
			}

			ctx := SetSessionInContext(r.Context(), result.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
