package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopmill/admin-api/internal/data"
	apperrors "github.com/shopmill/admin-api/internal/errors"
	"github.com/shopmill/admin-api/internal/session"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]any{
		"success": false,
		"error":   p.ErrCode,
		"message": p.Err.Error(),
	})
}

// WriteSessionError writes an authentication/authorization failure in the
// closed-taxonomy shape consumed by polling clients. Only
// INSUFFICIENT_PERMISSIONS maps to 403; every other code means the caller
// must re-authenticate and maps to 401.
func WriteSessionError(w http.ResponseWriter, serr *session.Error) {
	code := http.StatusUnauthorized
	if serr.Code == session.CodeInsufficientPermissions {
		code = http.StatusForbidden
	}
	WriteJSON(w, code, map[string]any{
		"success":       false,
		"authenticated": false,
		"error":         serr,
	})
}

// WriteDomainError maps repository and service errors to HTTP responses.
// Unrecognized errors become an opaque 500; internals never leak to clients.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrProductNotFound),
		errors.Is(err, data.ErrCategoryNotFound),
		errors.Is(err, data.ErrOrderNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrProductSlugExists),
		errors.Is(err, data.ErrCategorySlugExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case errors.Is(err, data.ErrCategoryInUse):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case apperrors.IsValidation(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
	case apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.IsConflict(err):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal",
			Err:     errors.New("internal server error"),
		})
	}
}
