// Package handlers provides HTTP response utilities for JSON APIs.
// Every response body carries an "ok" discriminator so clients can branch
// on success without inspecting status codes.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Failure is the body written for an unsuccessful request.
type Failure struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"error_kind"`
	Detail    string `json:"detail"`
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a Failure body.
// Server errors log at error level; client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, kind string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "kind", kind, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "kind", kind, "status", status)
	}

	RespondJSON(w, status, Failure{
		OK:        false,
		ErrorKind: kind,
		Detail:    err.Error(),
	})
}
