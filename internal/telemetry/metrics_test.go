package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	r := NewRecorder("gpu", nil, m)

	for i := range 5 {
		if err := r.Record(i, false, 2*time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	m.Restart("gpu")

	if got := testutil.ToFloat64(m.FramesTotal.WithLabelValues("gpu")); got != 5 {
		t.Errorf("frames_total = %g, want 5", got)
	}
	if got := testutil.ToFloat64(m.Restarts.WithLabelValues("gpu")); got != 1 {
		t.Errorf("restarts_total = %g, want 1", got)
	}
	if got := testutil.CollectAndCount(m.FrameSeconds); got != 1 {
		t.Errorf("frame_seconds series = %d, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Observe("cpu", time.Millisecond)
	m.Restart("cpu")
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Observe("cpu", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `magpen_frames_total{backend="cpu"} 1`) {
		t.Errorf("frames counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, "magpen_frame_seconds_bucket") {
		t.Error("histogram missing from exposition")
	}
}
