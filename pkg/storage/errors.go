package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested name does not exist in storage.
	ErrNotFound = errors.New("storage: name not found")

	// ErrPermissionDenied indicates insufficient permissions to access the name.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the name cannot address a blob directly under
	// the storage root.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrNotReady indicates the storage root has not been created.
	ErrNotReady = errors.New("storage: not ready")
)
