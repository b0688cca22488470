package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rgower/vantage/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Path  string `json:"path,omitempty"`
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
	if r.Body == nil {
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

// WriteServiceError maps service-layer error values to HTTP status codes.
// Validation failures are 400, missing records 404, a busy or superseded AI
// call 409, and every other AI failure 502 with its kind as the error code.
func WriteServiceError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	var nfErr *models.NotFoundError
	var aiErr *models.AIError

	switch {
	case errors.As(err, &vErr):
		WriteError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nfErr):
		WriteError(w, http.StatusNotFound, nfErr.Error())
	case errors.As(err, &aiErr):
		status := http.StatusBadGateway
		if aiErr.Kind == models.AIErrorBusy || aiErr.Kind == models.AIErrorSuperseded {
			status = http.StatusConflict
		}
		WriteJSON(w, status, ErrorResponse{
			Error: aiErr.Error(),
			Code:  string(aiErr.Kind),
			Path:  aiErr.Path,
		})
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
