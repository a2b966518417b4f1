// Package metrics exposes Prometheus instrumentation for provider calls,
// diagnoses, narrative generation and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Diagnosis outcomes.
const (
	OutcomeOK                 = "ok"
	OutcomeInsufficientSample = "insufficient_sample"
	OutcomeNotFound           = "not_found"
	OutcomeNoData             = "no_data"
	OutcomeError              = "error"
)

// Manager owns the statdiag metrics on its own registry. A nil *Manager is
// valid and records nothing.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	diagnoses        *prometheus.CounterVec
	diagnosisLatency prometheus.Histogram
	llmCalls         *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// NewManager creates a Manager on a fresh registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "statdiag",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Data provider requests by endpoint and HTTP status (0 = transport error).",
	}, []string{"endpoint", "status"})
	m.providerLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Data provider request latency.",
		Buckets:   m.buckets,
	}, []string{"endpoint"})
	m.diagnoses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "diagnoses_total",
		Help:      "Season diagnoses by outcome.",
	}, []string{"outcome"})
	m.diagnosisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "diagnosis_duration_seconds",
		Help:      "End-to-end diagnosis latency including data fetch.",
		Buckets:   m.buckets,
	})
	m.llmCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Narrative generation calls by provider and outcome.",
	}, []string{"provider", "outcome"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP API requests by method, route and status.",
	}, []string{"method", "route", "status"})
	m.httpLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP API request latency.",
		Buckets:   m.buckets,
	}, []string{"method", "route"})
	return m
}

// ProviderRequest records one data provider call. Its signature matches
// statcast.Observer.
func (m *Manager) ProviderRequest(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.providerLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Diagnosis records a finished diagnosis.
func (m *Manager) Diagnosis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.diagnoses.WithLabelValues(outcome).Inc()
	m.diagnosisLatency.Observe(elapsed.Seconds())
}

// LLMCall records a narrative generation attempt.
func (m *Manager) LLMCall(provider, outcome string) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(provider, outcome).Inc()
}

// HTTPRequest records one served API request.
func (m *Manager) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
