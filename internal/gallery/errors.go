package gallery

import (
	"errors"
	"net/http"
)

// Domain errors for gallery operations. Each carries a stable kind via KindOf.
var (
	ErrNotFound            = errors.New("gallery not found")
	ErrInvalidID           = errors.New("invalid gallery id")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrMissingField        = errors.New("missing required field")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrEmptyGallery        = errors.New("gallery must contain at least one file")
	ErrStorageWrite        = errors.New("storage write failed")
	ErrStorageDelete       = errors.New("storage delete failed")
	ErrPersistence         = errors.New("persistence failed")
	ErrConflict            = errors.New("gallery was modified concurrently")
)

var kinds = []struct {
	err    error
	kind   string
	status int
}{
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrInvalidID, "invalid_id", http.StatusBadRequest},
	{ErrInvalidCategory, "invalid_category", http.StatusBadRequest},
	{ErrMissingField, "missing_required_field", http.StatusBadRequest},
	{ErrUnsupportedFileType, "unsupported_file_type", http.StatusUnsupportedMediaType},
	{ErrFileTooLarge, "file_too_large", http.StatusRequestEntityTooLarge},
	{ErrEmptyGallery, "empty_gallery", http.StatusUnprocessableEntity},
	{ErrConflict, "conflict", http.StatusConflict},
	{ErrStorageWrite, "storage_write_error", http.StatusInternalServerError},
	{ErrStorageDelete, "storage_delete_error", http.StatusInternalServerError},
	{ErrPersistence, "persistence_error", http.StatusInternalServerError},
}

// KindOf returns the stable error kind for err, or "internal_error".
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal_error"
}

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}
