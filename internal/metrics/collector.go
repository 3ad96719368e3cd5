package metrics

import (
	"net/http"
	"strconv"
	"time"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the evaluator's Prometheus metrics on its own registry
type Collector struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationErrors   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	comparisonsTotal   *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector registers all metrics under namespace
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	c := &Collector{registry: reg}

	c.evaluationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed hypothesis test evaluations",
		},
		[]string{"kind", "decision"},
	)

	c.evaluationErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Failed evaluations by error kind",
		},
		[]string{"kind", "error"},
	)

	c.evaluationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent computing a statistic and its p-value",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"kind"},
	)

	c.comparisonsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Nested model comparisons by outcome",
		},
		[]string{"outcome"},
	)

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	return c
}

// RecordEvaluation counts a successful evaluation
func (c *Collector) RecordEvaluation(kind stats.TestKind, decision stats.Decision, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(string(kind), string(decision)).Inc()
	c.evaluationDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

// RecordError counts a failed evaluation under its domain error kind
func (c *Collector) RecordError(kind stats.TestKind, err error) {
	c.evaluationErrors.WithLabelValues(string(kind), core.ErrorKind(err)).Inc()
}

// RecordComparison counts a finished model comparison
func (c *Collector) RecordComparison(result stats.ComparisonResult) {
	outcome := "selected"
	if result.Exhausted() {
		outcome = "exhausted"
	}
	c.comparisonsTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts a served request
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
