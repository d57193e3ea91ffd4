package httpapi

import (
	"encoding/json"
	"net/http"

	"ttsd/internal/router"
	"ttsd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps the dispatch error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case router.IsInput(err), router.IsOption(err):
		return http.StatusBadRequest
	case router.IsUnknownService(err):
		return http.StatusNotFound
	case router.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case router.IsBusy(err):
		return http.StatusTooManyRequests
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
