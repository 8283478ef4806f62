package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric returns the first metric of c whose labels include labels.
func collectMetric(t *testing.T, c prometheus.Collector, labels map[string]string) *dto.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		if hasLabels(d, labels) {
			return d
		}
	}
	return nil
}

func hasLabels(d *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range d.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func newMetricsRouter(t *testing.T, status int) (*HTTPMetrics, *chi.Mux) {
	t.Helper()
	m := NewHTTPMetrics(prometheus.NewRegistry(), "test-svc")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{productId}", func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
		}
		_, _ = w.Write([]byte("{}"))
	})
	return m, r
}

func TestHTTPMetrics_CountsByRoutePattern(t *testing.T) {
	m, router := newMetricsRouter(t, http.StatusOK)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	labels := map[string]string{"service": "test-svc", "method": "GET", "path": "/products/{productId}", "status": "200"}
	metric := collectMetric(t, m.requests, labels)
	require.NotNil(t, metric)
	assert.Equal(t, float64(3), metric.GetCounter().GetValue())
}

func TestHTTPMetrics_DurationHistogram(t *testing.T) {
	m, router := newMetricsRouter(t, http.StatusOK)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	metric := collectMetric(t, m.duration, map[string]string{"path": "/products/{productId}"})
	require.NotNil(t, metric)
	assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}

func TestHTTPMetrics_StatusCodeCapture(t *testing.T) {
	m, router := newMetricsRouter(t, http.StatusNotFound)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/9", nil))

	assert.NotNil(t, collectMetric(t, m.requests, map[string]string{"status": "404"}))
}

func TestHTTPMetrics_DefaultStatusCode(t *testing.T) {
	m, router := newMetricsRouter(t, 0)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	assert.NotNil(t, collectMetric(t, m.requests, map[string]string{"status": "200"}))
}

func TestHTTPMetrics_UnmatchedRouteIsUnknown(t *testing.T) {
	m, router := newMetricsRouter(t, http.StatusOK)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.NotNil(t, collectMetric(t, m.requests, map[string]string{"path": "unknown", "status": "404"}))
}

func TestHTTPMetrics_InFlightReturnsToZero(t *testing.T) {
	m, router := newMetricsRouter(t, http.StatusOK)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	expected := `
# HELP http_requests_in_flight Current number of HTTP requests being served
# TYPE http_requests_in_flight gauge
http_requests_in_flight{service="test-svc"} 0
`
	assert.NoError(t, testutil.CollectAndCompare(m.inFlight, strings.NewReader(expected)))
}
