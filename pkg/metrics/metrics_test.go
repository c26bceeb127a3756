package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/campus-gallery/pkg/metrics"
)

func TestMiddleware_RecordsMatchedPattern(t *testing.T) {
	reg := metrics.New("gallery_test")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gallery/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	// ServeMux records the matched pattern on the request it is handed.
	handler := reg.Middleware()(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/gallery/12", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/gallery/13", nil))

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)

	want := `gallery_test_http_requests_total{method="GET",route="GET /api/gallery/{id}",status="404"} 2`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q", want)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing go runtime collector")
	}
}

func TestMiddleware_Unmatched(t *testing.T) {
	reg := metrics.New("gallery_test")

	handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/nowhere", nil))

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	want := `gallery_test_http_requests_total{method="POST",route="unmatched",status="200"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("metrics output missing %q", want)
	}
}
