// Package storage provides durable media storage addressed by generated names.
// Names are flat: every blob lives directly under a single root directory, and a
// name never carries path components of its own.
package storage

import (
	"context"
	"os"

	"github.com/JaimeStill/campus-gallery/pkg/lifecycle"
)

// System defines the media storage operations.
type System interface {
	// EnsureRoot creates the storage root if absent. Safe to call repeatedly.
	EnsureRoot() error

	// GenerateName combines a random identifier with a normalized form of
	// original. The result is always a valid key for the other operations.
	GenerateName(original string) string

	// Write stores data under name, overwriting any existing blob.
	Write(ctx context.Context, name string, data []byte) error

	// Exists reports whether a blob is stored under name. It never fails;
	// invalid or unreadable names report false.
	Exists(ctx context.Context, name string) bool

	// Delete removes the blob under name. A missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// Open returns a read handle for the blob under name.
	// Returns ErrNotFound if no blob exists.
	Open(ctx context.Context, name string) (*os.File, error)

	// Ready returns ErrNotReady until the root has been created.
	Ready() error

	// Start registers root creation as a lifecycle startup hook.
	Start(lc *lifecycle.Coordinator) error
}
