package gallery

import (
	"mime"
	"slices"
	"strings"
)

// MaxFileSize is the default per-file upload limit (10 MiB).
const MaxFileSize int64 = 10 << 20

// ReferencePrefix is the logical path prefix of every stored file reference.
const ReferencePrefix = "/gallery/"

var allowedTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/svg+xml",
	"video/mp4",
	"video/mpeg",
	"video/avi",
	"video/x-msvideo",
	"video/quicktime",
	"video/x-ms-wmv",
	"video/x-flv",
	"video/webm",
	"video/x-matroska",
}

// AllowedTypes returns the accepted media types.
func AllowedTypes() []string {
	return slices.Clone(allowedTypes)
}

// MediaType normalizes a Content-Type value to its lower-cased media type,
// dropping parameters.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// Allowed reports whether contentType is an accepted image or video type.
func Allowed(contentType string) bool {
	return slices.Contains(allowedTypes, MediaType(contentType))
}

// Reference returns the logical file reference for a stored name.
func Reference(name string) string {
	return ReferencePrefix + name
}

// ReferenceName extracts the storage name from a file reference.
// It reports false for references outside ReferencePrefix or carrying
// nested path segments.
func ReferenceName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, ReferencePrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}
