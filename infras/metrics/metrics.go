package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fair/config"
)

const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeNoop     = "noop"
)

// Metrics records the reservation lifecycle and HTTP traffic.
type Metrics interface {
	RecordTransition(operation, outcome string)
	ObserveSweep(expired int, duration time.Duration)
	RecordHTTPRequest(method, route, statusCode string, duration time.Duration)
	Handler() http.Handler
}

type prometheusMetrics struct {
	registry *prometheus.Registry

	transitionsTotal    *prometheus.CounterVec
	sweepDuration       prometheus.Histogram
	sweepExpiredTotal   prometheus.Counter
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers every collector on a private registry, so building more than
// one instance (tests, the worker) never panics on duplicate registration.
func New(cfg *config.Config) Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	namespace := cfg.Metrics.Namespace

	return &prometheusMetrics{
		registry: registry,
		transitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_transitions_total",
				Help:      "Lifecycle operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		sweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reservation_sweep_duration_seconds",
				Help:      "Duration of expiry sweeps in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		sweepExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_sweep_expired_total",
				Help:      "Reservations expired by the sweeper",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),
	}
}

func (m *prometheusMetrics) RecordTransition(operation, outcome string) {
	m.transitionsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *prometheusMetrics) ObserveSweep(expired int, duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
	m.sweepExpiredTotal.Add(float64(expired))
}

func (m *prometheusMetrics) RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(duration.Seconds())
}

func (m *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
