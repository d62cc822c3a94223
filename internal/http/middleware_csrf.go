package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopmill/admin-api/internal/session"
)

const (
	// DefaultCSRFHeaderName is the header state-changing requests carry the token in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFFormFieldName is the form field checked for non-AJAX submissions.
	DefaultCSRFFormFieldName = "csrf_token"
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	// CookieName is the name of the CSRF cookie paired with the session
	// (default: "csrf-token"). The cookie is issued at login by the session
	// manager; this middleware only verifies the pair.
	CookieName string
	// HeaderName is the name of the CSRF header to check (default: "X-Csrf-Token")
	HeaderName string
	// FormFieldName is the name of the form field to check (default: "csrf_token")
	FormFieldName string
}

// CSRFProtection returns a middleware enforcing the double-submit cookie
// pattern: state-changing requests (POST, PUT, DELETE, PATCH) must echo the
// CSRF cookie value via header or form field. The submitted value is compared
// against the cookie in constant time.
//
// GET, HEAD, OPTIONS, and TRACE requests are exempt from CSRF validation.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "csrf-token"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultCSRFFormFieldName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresCSRFValidation(r.Method) && !validateCSRFToken(r, cfg) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "csrf_validation_failed",
					Err:     errors.New("CSRF token validation failed"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
// Safe methods (GET, HEAD, OPTIONS, TRACE) are exempt.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// validateCSRFToken compares the submitted token against the CSRF cookie.
// The header is checked first (AJAX requests), then the form field for
// form-encoded content types.
func validateCSRFToken(r *http.Request, cfg CSRFConfig) bool {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	if headerToken := r.Header.Get(cfg.HeaderName); headerToken != "" {
		return session.VerifyCSRFToken(headerToken, cookie.Value)
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return false
		}
		if formToken := r.FormValue(cfg.FormFieldName); formToken != "" {
			return session.VerifyCSRFToken(formToken, cookie.Value)
		}
	}

	return false
}
