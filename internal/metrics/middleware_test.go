package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Put("/records/{type}/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") == "fuzzy" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, http.NoBody))
	return rr
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("PUT", "/records/{type}/{id}", "200"))

	serve(r, http.MethodPut, "/records/post/1")
	serve(r, http.MethodPut, "/records/post/2")

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("PUT", "/records/{type}/{id}", "200"))
	if after-before != 2 {
		t.Errorf("requests_total delta = %f, want 2", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		target string
		status string
	}{
		{"/search?q=chat", "200"},
		{"/search?q=chat&mode=fuzzy", "400"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search", tc.status))
			serve(r, http.MethodGet, tc.target)
			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search", tc.status))
			if after-before != 1 {
				t.Errorf("requests_total{status=%s} delta = %f, want 1", tc.status, after-before)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	serve(r, http.MethodGet, "/collections/abc")

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 1 {
		t.Errorf("unmatched delta = %f, want 1", after-before)
	}
}

func TestMiddleware_SkipsScrapes(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200"))

	rr := serve(r, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected non-empty metrics response")
	}

	if after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200")); after != before {
		t.Errorf("scrape was counted: %f -> %f", before, after)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unmatched"},
		{"/records/{type}/{id}", "/records/{type}/{id}"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegisterEngineMetrics_Idempotent(t *testing.T) {
	RegisterEngineMetrics()
	RegisterEngineMetrics()

	IndexOperationsTotal.WithLabelValues("index", Status(nil)).Inc()
	if v := testutil.ToFloat64(IndexOperationsTotal.WithLabelValues("index", "ok")); v < 1 {
		t.Errorf("index_operations_total = %f, want >= 1", v)
	}
	if Status(io.EOF) != "error" {
		t.Error("Status(err) should be error")
	}
}
