package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the frame collectors of a run on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	// FramesTotal counts rendered frames by backend.
	FramesTotal *prometheus.CounterVec

	// FrameSeconds tracks frame time by backend.
	FrameSeconds *prometheus.HistogramVec

	// Restarts counts particle reseeds by backend.
	Restarts *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magpen_frames_total",
				Help: "Rendered frames by backend",
			},
			[]string{"backend"},
		),
		FrameSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "magpen_frame_seconds",
				Help:    "Frame time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"backend"},
		),
		Restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magpen_restarts_total",
				Help: "Particle field reseeds by backend",
			},
			[]string{"backend"},
		),
	}
	m.registry.MustRegister(m.FramesTotal, m.FrameSeconds, m.Restarts)
	return m
}

// Observe records one frame. It is a no-op on a nil Metrics.
func (m *Metrics) Observe(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.FramesTotal.WithLabelValues(backend).Inc()
	m.FrameSeconds.WithLabelValues(backend).Observe(d.Seconds())
}

// Restart records one reseed. It is a no-op on a nil Metrics.
func (m *Metrics) Restart(backend string) {
	if m == nil {
		return
	}
	m.Restarts.WithLabelValues(backend).Inc()
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
