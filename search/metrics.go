package search

import (
	"time"

	"github.com/poiesic/catalogmatch/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes recorded by MetricsMonitor.
const (
	outcomeMatched  = "matched"
	outcomeNoMatch  = "no_match"
	outcomeDegraded = "degraded"
)

// MetricsMonitor is a SearchMonitor that records Prometheus metrics.
// It is safe for concurrent use.
type MetricsMonitor struct {
	resolutions       *prometheus.CounterVec
	generatorDuration *prometheus.HistogramVec
	generatorFailures *prometheus.CounterVec
	candidates        *prometheus.CounterVec
	results           prometheus.Histogram
}

var _ SearchMonitor = (*MetricsMonitor)(nil)

// NewMetricsMonitor registers the resolution metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetricsMonitor(reg prometheus.Registerer) *MetricsMonitor {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &MetricsMonitor{
		// Labels: archetype (SIMPLE, TECHNICAL, MIXED), outcome (matched, no_match, degraded)
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogmatch",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Resolution calls by query archetype and outcome",
		}, []string{"archetype", "outcome"}),
		generatorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalogmatch",
			Subsystem: "resolver",
			Name:      "generator_duration_seconds",
			Help:      "Candidate generator latency including catalog lookups",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"generator"}),
		generatorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogmatch",
			Subsystem: "resolver",
			Name:      "generator_failures_total",
			Help:      "Candidate generator failures",
		}, []string{"generator"}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogmatch",
			Subsystem: "resolver",
			Name:      "candidates_total",
			Help:      "Candidates produced per generator before merging",
		}, []string{"generator"}),
		results: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalogmatch",
			Subsystem: "resolver",
			Name:      "results",
			Help:      "Ranked results returned per resolution",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
}

func (m *MetricsMonitor) Start(_ string)           {}
func (m *MetricsMonitor) AfterParse(_ *core.Query) {}

func (m *MetricsMonitor) GeneratorFinished(id GeneratorID, candidates []*core.Candidate, elapsed time.Duration) {
	m.generatorDuration.WithLabelValues(string(id)).Observe(elapsed.Seconds())
	m.candidates.WithLabelValues(string(id)).Add(float64(len(candidates)))
}

func (m *MetricsMonitor) GeneratorFailed(id GeneratorID, _ error, elapsed time.Duration) {
	m.generatorDuration.WithLabelValues(string(id)).Observe(elapsed.Seconds())
	m.generatorFailures.WithLabelValues(string(id)).Inc()
}

func (m *MetricsMonitor) Finish(res *Resolution) {
	outcome := outcomeMatched
	switch {
	case res.Degraded:
		outcome = outcomeDegraded
	case len(res.Results) == 0:
		outcome = outcomeNoMatch
	}
	m.resolutions.WithLabelValues(res.Query.Archetype.String(), outcome).Inc()
	m.results.Observe(float64(len(res.Results)))
}
