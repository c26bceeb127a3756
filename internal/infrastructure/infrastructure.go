// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/campus-gallery/internal/config"
	"github.com/JaimeStill/campus-gallery/internal/gallery"
	"github.com/JaimeStill/campus-gallery/migrations"
	"github.com/JaimeStill/campus-gallery/pkg/database"
	"github.com/JaimeStill/campus-gallery/pkg/lifecycle"
	"github.com/JaimeStill/campus-gallery/pkg/logging"
	"github.com/JaimeStill/campus-gallery/pkg/metrics"
	"github.com/JaimeStill/campus-gallery/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil when the gallery runs on the in-memory record store.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Registry
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   metrics.New("campus_gallery"),
	}

	if cfg.Gallery.Store == gallery.StorePostgres {
		db, err := database.New(&cfg.Database, migrations.FS, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	infra.Storage = store

	return infra, nil
}

// Start registers every infrastructure system with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup finished with the storage root in place and
// the database, if any, reachable.
func (i *Infrastructure) Ready() bool {
	if !i.Lifecycle.Ready() {
		return false
	}
	if i.Storage.Ready() != nil {
		return false
	}
	if i.Database != nil && i.Database.Ready() != nil {
		return false
	}
	return true
}
