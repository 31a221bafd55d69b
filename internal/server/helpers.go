package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation      = "validation_failed"
	CodeNotFound        = "not_found"
	CodeUnauthenticated = "unauthenticated"
	CodeRateLimited     = "rate_limited"
	CodeConflict        = "conflict"
	CodeInternal        = "internal_error"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Details []models.FieldError `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteValidationError writes a 400 listing every failed field.
func WriteValidationError(w http.ResponseWriter, errs models.ValidationErrors) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid investment data",
		Code:    CodeValidation,
		Details: errs,
	})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.Body == http.NoBody {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For /api/investments/{id}, PathParam(r, "/api/investments/", "") returns {id}.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// writeServiceError maps service errors onto HTTP responses. Anything
// unrecognised is logged and reported as a 500 without internal detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		WriteValidationError(w, verrs)
	case errors.Is(err, interfaces.ErrNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, "Investment not found", CodeNotFound)
	case errors.Is(err, interfaces.ErrUnauthenticated):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Unauthorized", CodeUnauthenticated)
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to " + action)
		WriteErrorWithCode(w, http.StatusInternalServerError, "Failed to "+action, CodeInternal)
	}
}
