package gallery_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/campus-gallery/internal/gallery"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &gallery.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Store != gallery.StorePostgres {
		t.Errorf("Store = %q, want %q", cfg.Store, gallery.StorePostgres)
	}
	if cfg.IOTimeoutDuration() != 10*time.Second {
		t.Errorf("IOTimeout = %v, want 10s", cfg.IOTimeoutDuration())
	}
	if cfg.CleanupConcurrency != 4 {
		t.Errorf("CleanupConcurrency = %d, want 4", cfg.CleanupConcurrency)
	}
	if cfg.MaxRequestSizeBytes() != 64<<20 {
		t.Errorf("MaxRequestSizeBytes = %d, want %d", cfg.MaxRequestSizeBytes(), 64<<20)
	}
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_GALLERY_STORE", "memory")
	t.Setenv("TEST_GALLERY_IO_TIMEOUT", "2s")
	t.Setenv("TEST_GALLERY_CLEANUP_CONCURRENCY", "8")

	cfg := &gallery.Config{}
	err := cfg.Finalize(&gallery.Env{
		Store:              "TEST_GALLERY_STORE",
		IOTimeout:          "TEST_GALLERY_IO_TIMEOUT",
		CleanupConcurrency: "TEST_GALLERY_CLEANUP_CONCURRENCY",
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Store != gallery.StoreMemory || cfg.IOTimeoutDuration() != 2*time.Second || cfg.CleanupConcurrency != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  gallery.Config
	}{
		{"store", gallery.Config{Store: "redis"}},
		{"timeout", gallery.Config{IOTimeout: "soon"}},
		{"negative timeout", gallery.Config{IOTimeout: "-1s"}},
		{"request size", gallery.Config{MaxRequestSize: "big"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &gallery.Config{Store: "postgres", IOTimeout: "10s", CleanupConcurrency: 4}
	base.Merge(&gallery.Config{IOTimeout: "30s"})

	if base.Store != "postgres" || base.IOTimeout != "30s" || base.CleanupConcurrency != 4 {
		t.Errorf("unexpected merge result: %+v", base)
	}
}
