package storage

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	fallbackName = "file"

	// MaxNormalizedLength caps the normalized component of a generated name.
	// With the uuid prefix and the ".tmp" suffix used while writing, the
	// entry stays well under the common 255-byte file name limit.
	MaxNormalizedLength = 100

	// MaxKeyLength is the longest name Write accepts.
	MaxKeyLength = 255 - len(tmpSuffix)

	maxExtLength = 16
	tmpSuffix    = ".tmp"
)

// GenerateName returns "<uuid>-<normalized original>".
func GenerateName(original string) string {
	return uuid.NewString() + "-" + NormalizeName(original)
}

// NormalizeName lower-cases original, collapses whitespace runs to a single
// hyphen, and drops every character outside [a-z0-9._-]. Leading dots are
// trimmed so the result can never be "." or "..". Results longer than
// MaxNormalizedLength are shortened, keeping a short extension.
func NormalizeName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	fields := strings.FieldsFunc(strings.ToLower(base), unicode.IsSpace)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte('-')
		}
		for _, r := range field {
			if isNameRune(r) {
				b.WriteRune(r)
			}
		}
	}

	name := truncate(strings.TrimLeft(b.String(), "."))
	if name == "" {
		return fallbackName
	}
	return name
}

// truncate operates on bytes; normalized names are ASCII.
func truncate(name string) string {
	if len(name) <= MaxNormalizedLength {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > maxExtLength || len(ext) == len(name) {
		ext = ""
	}

	stem := strings.TrimRight(name[:MaxNormalizedLength-len(ext)], ".-")
	if stem == "" {
		stem = fallbackName
	}
	return stem + ext
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
