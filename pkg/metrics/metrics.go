// Package metrics provides Prometheus instrumentation for ingestion and annotation.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chorus"

// Metrics holds the counters and histograms exported on /metrics.
type Metrics struct {
	CommentsIngested  *prometheus.CounterVec
	CommentsAnnotated *prometheus.CounterVec
	SweepDuration     prometheus.Histogram
	SweepFailures     prometheus.Counter
	registry          *prometheus.Registry
}

// New creates Metrics registered on a fresh registry along with the
// Go runtime and process collectors.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		CommentsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_ingested_total",
			Help:      "Comments inserted by the ingestion pipeline",
		}, []string{"video_id"}),
		CommentsAnnotated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_annotated_total",
			Help:      "Comments annotated by the sentiment sweep",
		}, []string{"sentiment"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one annotation sweep",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_failures_total",
			Help:      "Annotation sweeps aborted by an error",
		}),
		registry: registry,
	}

	for _, c := range []prometheus.Collector{
		m.CommentsIngested,
		m.CommentsAnnotated,
		m.SweepDuration,
		m.SweepFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return m, nil
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveIngest records n comments inserted for videoID.
func (m *Metrics) ObserveIngest(videoID string, n int) {
	if m == nil {
		return
	}
	m.CommentsIngested.WithLabelValues(videoID).Add(float64(n))
}

// ObserveAnnotation records one annotated comment with the given label.
func (m *Metrics) ObserveAnnotation(sentiment string) {
	if m == nil {
		return
	}
	m.CommentsAnnotated.WithLabelValues(sentiment).Inc()
}

// ObserveSweep records the duration of a sweep and whether it failed.
func (m *Metrics) ObserveSweep(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.SweepFailures.Inc()
	}
}
