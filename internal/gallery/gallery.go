// Package gallery manages gallery records and the media blobs they reference.
// The manager is the only writer of Record.Files and keeps every committed
// reference backed by a blob in media storage.
package gallery

import "time"

// Record is one gallery entry: an album of media files under a title and category.
type Record struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Files       []string  `json:"files"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields are the mutable columns written to the Store on create and update.
type Fields struct {
	Title       string
	Description string
	Category    Category
	Files       []string
}

// NewFile is an uploaded media payload awaiting validation.
// Size is the declared byte size; when zero, len(Data) is used.
type NewFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// size is the larger of the declared size and the bytes actually carried,
// so neither can be used to slip past the size limit.
func (f NewFile) size() int64 {
	return max(f.Size, int64(len(f.Data)))
}

// CreateCommand contains the data required to create a new gallery record.
type CreateCommand struct {
	Title       string
	Description string
	Category    string
	Files       []NewFile
}

// UpdateCommand describes a metadata rewrite plus file removals and additions.
// FilesToRemove entries not present on the record are ignored.
// ExpectedVersion, when set, must match the stored version or the update is
// rejected with ErrConflict. When nil the last write wins.
type UpdateCommand struct {
	Title           string
	Description     string
	Category        string
	FilesToRemove   []string
	NewFiles        []NewFile
	ExpectedVersion *int
}

// Result is the successful outcome of a lifecycle operation.
type Result struct {
	Record  *Record `json:"record"`
	Message string  `json:"message,omitempty"`
}
