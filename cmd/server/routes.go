package main

import (
	"net/http"

	"github.com/JaimeStill/campus-gallery/internal/infrastructure"
	"github.com/JaimeStill/campus-gallery/pkg/lifecycle"
)

// buildRouter mounts the probe and metrics endpoints beside the API handler.
func buildRouter(infra *infrastructure.Infrastructure, api http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthCheck)
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		handleReadinessCheck(w, infra)
	})
	mux.Handle("GET /metrics", infra.Metrics.Handler())
	mux.Handle("/", api)

	return mux
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
