// Package metrics provides Prometheus metrics for the routing pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage names used as the "stage" label.
const (
	StageClassify = "classify"
	StageRetrieve = "retrieve"
	StageGenerate = "generate"
	StageSimplify = "simplify"
)

type Metrics struct {
	requests  *prometheus.CounterVec
	stages    *prometheus.HistogramVec
	domains   *prometheus.CounterVec
	fallbacks prometheus.Counter
	sections  prometheus.Histogram
	contract  *prometheus.CounterVec
}

// New creates the pipeline metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_route_requests_total",
			Help: "Routed queries by outcome (ok or error category)",
		}, []string{"outcome"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legal_route_stage_duration_seconds",
			Help:    "Latency of each pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		domains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_route_domain_total",
			Help: "Queries by classified domain label",
		}, []string{"domain"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legal_route_retrieval_fallback_total",
			Help: "Retrievals that returned unranked fallback sections",
		}),
		sections: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "legal_route_sections_returned",
			Help:    "Sections passed to the answer generator",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 12, 20},
		}),
		contract: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_route_contract_violations_total",
			Help: "Model replies missing the expected tier marker",
		}, []string{"tier"}),
	}
	reg.MustRegister(m.requests, m.stages, m.domains, m.fallbacks, m.sections, m.contract)
	return m
}

// ObserveStage records how long stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveOutcome counts a finished request; outcome is "ok" or an error category.
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDomain(label string) {
	if m == nil {
		return
	}
	m.domains.WithLabelValues(label).Inc()
}

// ObserveRetrieval records the result size and whether the fallback path ran.
func (m *Metrics) ObserveRetrieval(results int, fallback bool) {
	if m == nil {
		return
	}
	m.sections.Observe(float64(results))
	if fallback {
		m.fallbacks.Inc()
	}
}

// ObserveContractViolation counts a reply whose tier marker was missing.
func (m *Metrics) ObserveContractViolation(tier string) {
	if m == nil {
		return
	}
	m.contract.WithLabelValues(tier).Inc()
}
