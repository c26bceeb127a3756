package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/JaimeStill/campus-gallery/pkg/lifecycle"
)

// filesystem implements System using the local filesystem.
// Each blob is a single file directly under basePath.
type filesystem struct {
	basePath string
	logger   *slog.Logger
	ready    atomic.Bool
}

// New creates a filesystem storage system.
// The base path is resolved to an absolute path during construction.
// Directory creation is deferred to EnsureRoot or Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		logger:   logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "base_path", f.basePath)

	lc.OnStartup(func() {
		if err := f.EnsureRoot(); err != nil {
			f.logger.Error("storage initialization failed", "error", err)
			return
		}
		f.logger.Info("storage directory initialized")
	})

	return nil
}

func (f *filesystem) EnsureRoot() error {
	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		f.ready.Store(false)
		return fmt.Errorf("create storage root: %w", err)
	}
	f.ready.Store(true)
	return nil
}

func (f *filesystem) Ready() error {
	if !f.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (f *filesystem) GenerateName(original string) string {
	return GenerateName(original)
}

func (f *filesystem) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := f.fullPath(name)
	if err != nil {
		return err
	}

	tmpPath := path + tmpSuffix
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (f *filesystem) Exists(ctx context.Context, name string) bool {
	path, err := f.fullPath(name)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("stat failed", "name", name, "error", err)
		}
		return false
	}

	return info.Mode().IsRegular()
}

func (f *filesystem) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := f.fullPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

func (f *filesystem) Open(ctx context.Context, name string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.fullPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return file, nil
}

func (f *filesystem) fullPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || len(name) > MaxKeyLength {
		return "", ErrInvalidKey
	}

	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", ErrInvalidKey
	}

	fullPath := filepath.Join(f.basePath, name)
	if filepath.Dir(fullPath) != f.basePath {
		return "", ErrInvalidKey
	}

	return fullPath, nil
}
