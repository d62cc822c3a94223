package httpx

import (
	"context"
	"net/http"

	"github.com/shopmill/admin-api/internal/domain/auth"
)

// sessionKey is an unexported context key type for session storage.
type sessionKey struct{}

// SetSessionInContext stores the validated session in the request context.
func SetSessionInContext(ctx context.Context, sess auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromRequest retrieves the validated session placed in the context
// by RequireAdmin. The second return is false on unguarded routes.
func SessionFromRequest(r *http.Request) (auth.Session, bool) {
	sess, ok := r.Context().Value(sessionKey{}).(auth.Session)
	return sess, ok
}
