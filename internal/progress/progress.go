// Package progress reports search-and-verify progress as counters and
// rate-limited events, not as a rendered UI — spec.md §1 scopes a
// human-readable progress UI out of the synthesizer, but a machine-facing
// progress channel is ambient infrastructure every long-running run in the
// corpus carries (spec.md expansion, domain stack).
package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

const (
	metricsNamespace = "synthlight"
	searchSubsystem  = "search"
)

// Event is one progress update: how many candidates have been enumerated,
// filtered, and verified so far, plus the most recently verified
// algorithm's outcome.
type Event struct {
	EnumeratedCount int64  `json:"enumerated_count"`
	SurvivedFilters int64  `json:"survived_filters"`
	VerifiedCount   int64  `json:"verified_count"`
	PassedCount     int64  `json:"passed_count"`
	LastCode        string `json:"last_code,omitempty"`
	LastOutcome     string `json:"last_outcome,omitempty"`
}

// Sink receives progress events. Implementations must not block the
// caller for long; Report is expected to be called frequently from worker
// goroutines.
type Sink interface {
	Report(ctx context.Context, ev Event)
	Close() error
}

// Metrics are the Prometheus counters/gauges backing the default sink,
// grouped the way the corpus's observability.StreamingMetrics groups its
// CounterVec/HistogramVec/GaugeVec fields.
type Metrics struct {
	Enumerated *prometheus.CounterVec
	Filtered   *prometheus.CounterVec
	Verified   *prometheus.CounterVec
	Passed     *prometheus.CounterVec
	LastVerify *prometheus.GaugeVec
}

// NewMetrics registers the package's Prometheus series. Call once per
// process; registering twice panics, matching the corpus's InitMetrics.
func NewMetrics() *Metrics {
	labels := []string{"scheduler", "light_class"}
	return &Metrics{
		Enumerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: searchSubsystem,
			Name: "enumerated_total", Help: "Candidates produced by the enumerator.",
		}, labels),
		Filtered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: searchSubsystem,
			Name: "survived_filters_total", Help: "Candidates surviving the static filter chain.",
		}, labels),
		Verified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: searchSubsystem,
			Name: "verified_total", Help: "Candidates submitted to the checker.",
		}, labels),
		Passed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: searchSubsystem,
			Name: "passed_total", Help: "Candidates the checker confirmed gather.",
		}, labels),
		LastVerify: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Subsystem: searchSubsystem,
			Name: "last_verify_timestamp_seconds", Help: "Unix time of the most recent verifier result.",
		}, labels),
	}
}

// PrometheusSink adapts Metrics to the Sink interface.
type PrometheusSink struct {
	metrics    *Metrics
	scheduler  string
	lightClass string
	nowFunc    func() time.Time
}

// NewPrometheusSink builds a Sink that records into m, labeling every
// series with the run's scheduler and light class.
func NewPrometheusSink(m *Metrics, scheduler, lightClass string) *PrometheusSink {
	return &PrometheusSink{metrics: m, scheduler: scheduler, lightClass: lightClass, nowFunc: time.Now}
}

func (s *PrometheusSink) Report(_ context.Context, ev Event) {
	labels := prometheus.Labels{"scheduler": s.scheduler, "light_class": s.lightClass}
	s.metrics.Enumerated.With(labels).Add(float64(ev.EnumeratedCount))
	s.metrics.Filtered.With(labels).Add(float64(ev.SurvivedFilters))
	s.metrics.Verified.With(labels).Add(float64(ev.VerifiedCount))
	s.metrics.Passed.With(labels).Add(float64(ev.PassedCount))
	s.metrics.LastVerify.With(labels).Set(float64(s.nowFunc().Unix()))
}

func (s *PrometheusSink) Close() error { return nil }

// RateLimited wraps a Sink so Report drops events that arrive faster than
// limiter allows, the way the corpus throttles per-chunk stream events
// with a rate.Limiter before emitting them downstream.
type RateLimited struct {
	inner   Sink
	limiter *rate.Limiter
}

// NewRateLimited returns a Sink that forwards at most eventsPerSecond
// events per second to inner, dropping the rest.
func NewRateLimited(inner Sink, eventsPerSecond float64) *RateLimited {
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), 1)}
}

func (r *RateLimited) Report(ctx context.Context, ev Event) {
	if !r.limiter.Allow() {
		return
	}
	r.inner.Report(ctx, ev)
}

func (r *RateLimited) Close() error { return r.inner.Close() }

// Multi fans a single Report call out to several sinks.
type Multi []Sink

func (m Multi) Report(ctx context.Context, ev Event) {
	for _, s := range m {
		s.Report(ctx, ev)
	}
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Marshal renders an Event as the JSON line an external progress consumer
// (e.g. the websocket sink) transmits. Keeping this pure and exported lets
// transport-specific sinks stay thin.
func Marshal(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
