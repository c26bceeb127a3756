package gallery_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/JaimeStill/campus-gallery/internal/gallery"
	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/storage"
)

var errDiskFull = errors.New("no space left on device")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPaging() pagination.Config {
	return pagination.Config{DefaultPageSize: 10, MaxPageSize: 50}
}

// media wraps the filesystem store to count writes and inject failures.
type media struct {
	storage.System

	mu          sync.Mutex
	attempts    int
	writes      int
	failWriteAt int
	failDelete  error
}

func (m *media) Write(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	m.attempts++
	fail := m.failWriteAt > 0 && m.attempts == m.failWriteAt
	m.mu.Unlock()

	if fail {
		return errDiskFull
	}
	if err := m.System.Write(ctx, name, data); err != nil {
		return err
	}

	m.mu.Lock()
	m.writes++
	m.mu.Unlock()
	return nil
}

func (m *media) Delete(ctx context.Context, name string) error {
	if m.failDelete != nil {
		return m.failDelete
	}
	return m.System.Delete(ctx, name)
}

func (m *media) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// store wraps a Store to inject write failures.
type store struct {
	gallery.Store

	failCreate error
	failUpdate error
	failDelete error
}

func (s *store) Create(ctx context.Context, fields gallery.Fields) (*gallery.Record, error) {
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	return s.Store.Create(ctx, fields)
}

func (s *store) UpdateByID(ctx context.Context, id int64, fields gallery.Fields, expectedVersion *int) (*gallery.Record, error) {
	if s.failUpdate != nil {
		return nil, s.failUpdate
	}
	return s.Store.UpdateByID(ctx, id, fields, expectedVersion)
}

func (s *store) DeleteByID(ctx context.Context, id int64, expectedVersion *int) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	return s.Store.DeleteByID(ctx, id, expectedVersion)
}

type fixture struct {
	sys   gallery.System
	store *store
	media *media
	dir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	fs, err := storage.New(&storage.Config{BasePath: dir}, testLogger())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if err := fs.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}

	f := &fixture{
		store: &store{Store: gallery.NewMemoryStore(testPaging())},
		media: &media{System: fs},
		dir:   dir,
	}
	f.sys = gallery.New(f.store, f.media, testLogger(), nil, gallery.Settings{})
	return f
}

func (f *fixture) exists(t *testing.T, ref string) bool {
	t.Helper()
	name, ok := gallery.ReferenceName(ref)
	if !ok {
		t.Fatalf("malformed reference %q", ref)
	}
	return f.media.Exists(context.Background(), name)
}

func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return len(entries)
}

// seed creates a record holding one file per name.
func (f *fixture) seed(t *testing.T, names ...string) *gallery.Record {
	t.Helper()
	files := make([]gallery.NewFile, len(names))
	for i, n := range names {
		files[i] = jpeg(n, 1024)
	}

	res, err := f.sys.Create(context.Background(), gallery.CreateCommand{
		Title:    "Seed",
		Category: "GENERAL",
		Files:    files,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return res.Record
}

func jpeg(name string, size int) gallery.NewFile {
	return gallery.NewFile{Name: name, ContentType: "image/jpeg", Data: bytes.Repeat([]byte{0xff}, size)}
}

func png(name string, size int) gallery.NewFile {
	return gallery.NewFile{Name: name, ContentType: "image/png", Data: bytes.Repeat([]byte{0x89}, size)}
}

func intPtr(n int) *int {
	return &n
}

func pagingFirst() pagination.PageRequest {
	return pagination.PageRequest{Page: 1, PageSize: 10}
}
