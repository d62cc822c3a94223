package session

import (
	"fmt"
	"time"
)

// Code identifies one of the closed set of session failure conditions.
// The set is intentionally fixed: callers switch on codes to decide whether
// to force re-authentication, so new codes are an API change, not a detail.
type Code string

const (
	// CodeSessionMissing means no session cookie was presented.
	CodeSessionMissing Code = "SESSION_MISSING"
	// CodeSessionInvalid means cryptographic verification failed, or the
	// session was revoked, without a more specific reason.
	CodeSessionInvalid Code = "SESSION_INVALID"
	// CodeSessionExpired means the token decoded successfully but is past expiry.
	CodeSessionExpired Code = "SESSION_EXPIRED"
	// CodeSessionMalformed means the token decoded but is missing required
	// fields, or decoding failed with no recognizable reason.
	CodeSessionMalformed Code = "SESSION_MALFORMED"
	// CodeUserNotFound means the session is valid but its principal no longer exists.
	CodeUserNotFound Code = "USER_NOT_FOUND"
	// CodeInsufficientPermissions means the session is valid but the role is
	// not allowed here. Re-login will not help; this is an authorization
	// failure, not an authentication one.
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
)

// Error is a session validation failure. It is a value object constructed
// fresh on every failure, never persisted, and consumed immediately by the
// HTTP layer to decide the response shape.
type Error struct {
	Code           Code      `json:"code"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	RequiresReauth bool      `json:"requiresReauth"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, message string, requiresReauth bool) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		Timestamp:      time.Now(),
		RequiresReauth: requiresReauth,
	}
}

// ErrMissing reports that no session cookie was presented.
func ErrMissing() *Error {
	return newError(CodeSessionMissing, "No active session", true)
}

// ErrInvalid reports a failed cryptographic verification or a revoked session.
func ErrInvalid() *Error {
	return newError(CodeSessionInvalid, "Session is invalid", true)
}

// ErrExpired reports a session past its expiry.
func ErrExpired() *Error {
	return newError(CodeSessionExpired, "Session has expired", true)
}

// ErrMalformed reports a token that decoded but is structurally unusable,
// or a decode failure with no recognizable reason.
func ErrMalformed() *Error {
	return newError(CodeSessionMalformed, "Session could not be read", true)
}

// ErrUserNotFound reports a valid session whose principal no longer exists.
func ErrUserNotFound() *Error {
	return newError(CodeUserNotFound, "Account no longer exists", true)
}

// ErrInsufficientPermissions reports a valid session with the wrong role.
func ErrInsufficientPermissions() *Error {
	return newError(CodeInsufficientPermissions, "You do not have access to this resource", false)
}
