// Package metrics exposes service metrics in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cloudops"

// Metrics holds the collectors of one server on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	alertEvents      *prometheus.CounterVec
	narratorCalls    *prometheus.CounterVec
	narratorTokens   *prometheus.CounterVec
	narratorCost     prometheus.Counter
	complianceScores *prometheus.GaugeVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		alertEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_events_total",
			Help:      "Alert lifecycle events by action.",
		}, []string{"action"}),
		narratorCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrator_requests_total",
			Help:      "Language model calls by outcome.",
		}, []string{"outcome"}),
		narratorTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrator_tokens_total",
			Help:      "Language model tokens by kind.",
		}, []string{"kind"}),
		narratorCost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrator_cost_usd_total",
			Help:      "Estimated language model spend in USD.",
		}),
		complianceScores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "compliance_score",
			Help:      "Latest score per compliance standard.",
		}, []string{"standard"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.alertEvents,
		m.narratorCalls,
		m.narratorTokens,
		m.narratorCost,
		m.complianceScores,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request. route is the matched pattern,
// not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AlertEvent counts n alerts affected by action.
func (m *Metrics) AlertEvent(action string, n int) {
	m.alertEvents.WithLabelValues(action).Add(float64(n))
}

// NarratorCall records a language model call with its token usage and cost.
func (m *Metrics) NarratorCall(outcome string, promptTokens, completionTokens int, costUSD float64) {
	m.narratorCalls.WithLabelValues(outcome).Inc()
	m.narratorTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	m.narratorTokens.WithLabelValues("completion").Add(float64(completionTokens))
	m.narratorCost.Add(costUSD)
}

// ComplianceScore sets the latest score of a standard.
func (m *Metrics) ComplianceScore(standardID string, score int) {
	m.complianceScores.WithLabelValues(standardID).Set(float64(score))
}
