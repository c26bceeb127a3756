package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/storage"
)

// Settings tunes the manager. Zero values fall back to defaults.
type Settings struct {
	IOTimeout          time.Duration
	CleanupConcurrency int
	MaxFileSize        int64
}

type manager struct {
	store       Store
	media       storage.System
	logger      *slog.Logger
	metrics     *Metrics
	ioTimeout   time.Duration
	concurrency int
	maxFileSize int64
}

// New creates the gallery lifecycle manager over a record store and media storage.
// metrics may be nil.
func New(store Store, media storage.System, logger *slog.Logger, metrics *Metrics, settings Settings) System {
	m := &manager{
		store:       store,
		media:       media,
		logger:      logger.With("system", "gallery"),
		metrics:     metrics,
		ioTimeout:   settings.IOTimeout,
		concurrency: settings.CleanupConcurrency,
		maxFileSize: settings.MaxFileSize,
	}
	if m.ioTimeout <= 0 {
		m.ioTimeout = 10 * time.Second
	}
	if m.concurrency <= 0 {
		m.concurrency = 4
	}
	if m.maxFileSize <= 0 {
		m.maxFileSize = MaxFileSize
	}
	return m
}

func (m *manager) Get(ctx context.Context, id int64) (*Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return m.find(ctx, id)
}

func (m *manager) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	result, err := m.store.List(ctx, page, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: list galleries: %v", ErrPersistence, err)
	}
	return result, nil
}

func (m *manager) Create(ctx context.Context, cmd CreateCommand) (res *Result, err error) {
	defer func() { m.metrics.observe("create", err) }()

	title, category, err := validateFields(cmd.Title, cmd.Category)
	if err != nil {
		return nil, err
	}

	accepted, err := m.accept(cmd.Files)
	if err != nil {
		return nil, err
	}
	if len(accepted) == 0 {
		return nil, ErrEmptyGallery
	}

	refs, err := m.writeFiles(ctx, accepted)
	if err != nil {
		return nil, err
	}

	rec, err := m.persist(ctx, func(ctx context.Context) (*Record, error) {
		return m.store.Create(ctx, Fields{
			Title:       title,
			Description: cmd.Description,
			Category:    category,
			Files:       refs,
		})
	})
	if err != nil {
		m.removeBlobs(ctx, "create", refs)
		return nil, err
	}

	m.logger.Info("gallery created", "id", rec.ID, "title", rec.Title, "files", len(rec.Files))
	return &Result{
		Record:  rec,
		Message: fmt.Sprintf("Gallery created with %s", plural(len(rec.Files), "file")),
	}, nil
}

// Update rewrites metadata and the file list of an existing record.
//
// Validation of fields and every new file completes before any storage
// mutation. New blobs are written before the record is committed; removed
// blobs are deleted only after the commit succeeds, so a committed
// reference is never left without its blob.
func (m *manager) Update(ctx context.Context, id int64, cmd UpdateCommand) (res *Result, err error) {
	defer func() { m.metrics.observe("update", err) }()

	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	title, category, err := validateFields(cmd.Title, cmd.Category)
	if err != nil {
		return nil, err
	}

	accepted, err := m.accept(cmd.NewFiles)
	if err != nil {
		return nil, err
	}

	current, err := m.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.ExpectedVersion != nil && *cmd.ExpectedVersion != current.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored version %d", ErrConflict, *cmd.ExpectedVersion, current.Version)
	}

	retained, removed := partition(current.Files, cmd.FilesToRemove)
	if len(retained)+len(accepted) == 0 {
		return nil, ErrEmptyGallery
	}

	added, err := m.writeFiles(ctx, accepted)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(retained)+len(added))
	files = append(files, retained...)
	files = append(files, added...)

	rec, err := m.persist(ctx, func(ctx context.Context) (*Record, error) {
		return m.store.UpdateByID(ctx, id, Fields{
			Title:       title,
			Description: cmd.Description,
			Category:    category,
			Files:       files,
		}, cmd.ExpectedVersion)
	})
	if err != nil {
		m.removeBlobs(ctx, "update", added)
		return nil, err
	}

	m.removeBlobs(ctx, "update", removed)

	m.logger.Info("gallery updated",
		"id", rec.ID,
		"version", rec.Version,
		"removed", len(removed),
		"added", len(added),
	)
	return &Result{
		Record:  rec,
		Message: updateMessage(len(removed), len(added)),
	}, nil
}

// Delete removes the record, then every blob it referenced. Blob failures
// are logged and counted but never fail the operation.
func (m *manager) Delete(ctx context.Context, id int64, expectedVersion *int) (res *Result, err error) {
	defer func() { m.metrics.observe("delete", err) }()

	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	current, err := m.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored version %d", ErrConflict, *expectedVersion, current.Version)
	}

	_, err = m.persist(ctx, func(ctx context.Context) (*Record, error) {
		return nil, m.store.DeleteByID(ctx, id, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	failed := m.removeBlobs(ctx, "delete", current.Files)

	m.logger.Info("gallery deleted", "id", id, "files", len(current.Files), "cleanup_failures", failed)
	return &Result{
		Record:  current,
		Message: fmt.Sprintf("Gallery deleted along with %s", plural(len(current.Files), "file")),
	}, nil
}

func (m *manager) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.ioTimeout)
}

func (m *manager) find(ctx context.Context, id int64) (*Record, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find gallery %d: %v", ErrPersistence, id, err)
	}
	return rec, nil
}

// persist runs a single Record Store write under the I/O timeout and
// classifies its failure.
func (m *manager) persist(ctx context.Context, fn func(context.Context) (*Record, error)) (*Record, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	rec, err := fn(ctx)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, ErrNotFound):
		return nil, err
	case errors.Is(err, ErrConflict):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}

// accept validates every incoming file before any is written.
// Files carrying no bytes are dropped once they pass the type and size gates.
func (m *manager) accept(files []NewFile) ([]NewFile, error) {
	accepted := make([]NewFile, 0, len(files))
	for _, f := range files {
		size := f.size()
		if size == 0 {
			continue
		}
		if !Allowed(f.ContentType) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, MediaType(f.ContentType), f.Name)
		}
		if size > m.maxFileSize {
			return nil, fmt.Errorf("%w: %s is %s, limit is %s",
				ErrFileTooLarge, f.Name, units.BytesSize(float64(size)), units.BytesSize(float64(m.maxFileSize)))
		}
		if len(f.Data) == 0 {
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, nil
}

// writeFiles stores files in order and returns their references. On failure
// the blobs already written by this call are removed before returning.
func (m *manager) writeFiles(ctx context.Context, files []NewFile) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		name := m.media.GenerateName(f.Name)

		wctx, cancel := m.bound(ctx)
		err := m.media.Write(wctx, name, f.Data)
		cancel()

		if err != nil {
			m.removeBlobs(ctx, "write_rollback", refs)
			return nil, fmt.Errorf("%w: %s: %v", ErrStorageWrite, f.Name, err)
		}
		m.metrics.written()
		refs = append(refs, Reference(name))
	}
	return refs, nil
}

// removeBlobs deletes the blobs behind refs concurrently and returns the
// number of failures. Failures are logged, never returned.
func (m *manager) removeBlobs(ctx context.Context, operation string, refs []string) int {
	if len(refs) == 0 {
		return 0
	}

	// Cleanup runs to completion even when the request context is cancelled.
	ctx = context.WithoutCancel(ctx)

	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(m.concurrency)

	for _, ref := range refs {
		g.Go(func() error {
			name, ok := ReferenceName(ref)
			if !ok {
				m.logger.Warn("skipping unrecognized file reference", "reference", ref, "operation", operation)
				return nil
			}

			dctx, cancel := m.bound(ctx)
			defer cancel()

			if err := m.media.Delete(dctx, name); err != nil {
				failed.Add(1)
				m.metrics.cleanupFailed(operation)
				m.logger.Warn("blob cleanup failed",
					"name", name,
					"operation", operation,
					"error", fmt.Errorf("%w: %v", ErrStorageDelete, err),
				)
				return nil
			}
			m.metrics.deleted()
			return nil
		})
	}
	g.Wait()

	return int(failed.Load())
}

func validateFields(title, category string) (string, Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", fmt.Errorf("%w: title", ErrMissingField)
	}
	c, err := ParseCategory(category)
	if err != nil {
		return "", "", err
	}
	return title, c, nil
}

// partition splits current into entries kept and entries removed, preserving
// order. References in remove that are not on the record are ignored.
func partition(current, remove []string) (retained, removed []string) {
	drop := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, f := range current {
		if _, ok := drop[f]; !ok {
			retained = append(retained, f)
			continue
		}
		if _, dup := seen[f]; !dup {
			seen[f] = struct{}{}
			removed = append(removed, f)
		}
	}
	return retained, removed
}

func updateMessage(removed, added int) string {
	if removed == 0 && added == 0 {
		return "Gallery details updated"
	}
	return fmt.Sprintf("Gallery updated: %s removed, %s added", plural(removed, "file"), plural(added, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
