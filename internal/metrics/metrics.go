// Package metrics exposes catalog workflow counters in the Prometheus format.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "librarian"

// Outcome labels.
const (
	OutcomeRender   = "render"
	OutcomeRedirect = "redirect"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Recorder struct {
	registry  *prometheus.Registry
	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	blocked   *prometheus.CounterVec
	dangling  *prometheus.GaugeVec
}

// New creates a recorder with its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_outcomes_total",
			Help:      "Catalog workflow results by entity, action and outcome.",
		}, []string{"entity", "action", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_duration_seconds",
			Help:      "Catalog workflow latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "action"}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_blocked_total",
			Help:      "Deletes refused because dependent records exist.",
		}, []string{"entity"}),
		dangling: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dangling_references",
			Help:      "References to missing records found by the last sweep.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.outcomes, r.durations, r.blocked, r.dangling,
	)
	return r
}

// Observe records one finished workflow.
func (r *Recorder) Observe(entity, action, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(entity, action, outcome).Inc()
	r.durations.WithLabelValues(entity, action).Observe(took.Seconds())
}

// DeleteBlocked counts a delete refused by the integrity guard.
func (r *Recorder) DeleteBlocked(entity string) {
	if r == nil {
		return
	}
	r.blocked.WithLabelValues(entity).Inc()
}

// SetDangling publishes the result of a dangling-reference sweep.
func (r *Recorder) SetDangling(kind string, n int) {
	if r == nil {
		return
	}
	r.dangling.WithLabelValues(kind).Set(float64(n))
}

// Handler serves the registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
