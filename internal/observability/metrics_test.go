package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAggregateOperation("project.update", "success", time.Millisecond)
	m.IncAggregateConflict("project.insert")
	m.ObserveDashboard("success", time.Millisecond)
	m.IncEventPublished("ticket.created", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=503 got=%d", rec.Code)
	}
}

func TestAggregateCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	m.ObserveAggregateOperation("project.update", "success", time.Millisecond)
	m.ObserveAggregateOperation("project.update", "success", time.Millisecond)
	m.ObserveAggregateOperation("project.update", "invariant_violation", time.Millisecond)
	m.IncAggregateConflict("project.insert")

	if got := testutil.ToFloat64(m.aggregateOps.WithLabelValues("project.update", "success")); got != 2 {
		t.Fatalf("success count: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("project.insert")); got != 1 {
		t.Fatalf("conflict count: want=1 got=%v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "tracker"})
	m.ObserveAPI("GET", "/api/projects", "200", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `tracker_api_requests_total{method="GET",route="/api/projects",status="200"} 1`) {
		t.Fatalf("missing api counter in exposition:\n%s", rec.Body.String())
	}
}
