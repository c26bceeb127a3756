// Package api assembles the gallery JSON API and public media routes into one handler.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/campus-gallery/internal/config"
	"github.com/JaimeStill/campus-gallery/internal/gallery"
	"github.com/JaimeStill/campus-gallery/internal/infrastructure"
	"github.com/JaimeStill/campus-gallery/pkg/middleware"
	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/routes"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")
	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
	}
}

// Domain holds the domain systems served by the API.
type Domain struct {
	Gallery gallery.System
}

// NewDomain selects the record store and builds the gallery manager.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	var store gallery.Store
	switch cfg.Gallery.Store {
	case gallery.StoreMemory:
		store = gallery.NewMemoryStore(runtime.Pagination)
	default:
		store = gallery.NewPostgresStore(runtime.Database.Connection(), runtime.Pagination)
	}

	m, err := gallery.NewMetrics(runtime.Metrics.Registerer())
	if err != nil {
		return nil, fmt.Errorf("gallery metrics: %w", err)
	}

	sys := gallery.New(store, runtime.Storage, runtime.Logger, m, gallery.Settings{
		IOTimeout:          cfg.Gallery.IOTimeoutDuration(),
		CleanupConcurrency: cfg.Gallery.CleanupConcurrency,
		MaxFileSize:        cfg.Storage.MaxUploadSizeBytes(),
	})

	return &Domain{Gallery: sys}, nil
}

// NewModule builds the API handler: gallery routes under the configured base
// path plus public media routes, wrapped in the API middleware stack.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	handler := gallery.NewHandler(
		domain.Gallery,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		cfg.Gallery.MaxRequestSizeBytes(),
		cfg.Storage.MaxUploadSizeBytes(),
	)

	mux := http.NewServeMux()
	routes.Register(mux, cfg.API.BasePath, handler.Routes())
	routes.Register(mux, "", handler.MediaRoutes())

	var stack middleware.Stack
	stack.Use(middleware.TrimSlash())
	stack.Use(middleware.CORS(&cfg.API.CORS))
	stack.Use(middleware.Logger(runtime.Logger))
	stack.Use(runtime.Metrics.Middleware())

	return stack.Apply(mux), nil
}
