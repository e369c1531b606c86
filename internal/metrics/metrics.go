package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scholarhub"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	applicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Total number of submitted applications.",
		},
	)

	applicationStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "status_changes_total",
			Help:      "Application status changes by target status.",
		},
		[]string{"status"},
	)

	broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "broadcasts_total",
			Help:      "Broadcast attempts by result.",
		},
		[]string{"result"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "deliveries_total",
			Help:      "UserNotification rows created, by source.",
		},
		[]string{"source"},
	)

	fanoutFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "fanout_failures_total",
			Help:      "Broadcasts whose fan-out failed after commit.",
		},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "files_total",
			Help:      "Uploaded files by detected format and result.",
		},
		[]string{"format", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		applicationsSubmitted,
		applicationStatusChanges,
		broadcasts,
		deliveries,
		fanoutFailures,
		uploads,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted / RequestFinished are called by the gin middleware.
func RequestStarted() { httpInFlight.Inc() }

func RequestFinished(method, route, status string, duration time.Duration) {
	httpInFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordApplicationSubmitted() { applicationsSubmitted.Inc() }

func RecordStatusChange(status string) {
	applicationStatusChanges.WithLabelValues(status).Inc()
}

// RecordBroadcast: result - ok, rate_limited, error
func RecordBroadcast(result string) {
	broadcasts.WithLabelValues(result).Inc()
}

// RecordDeliveries: source - broadcast, repair
func RecordDeliveries(source string, n int64) {
	if n > 0 {
		deliveries.WithLabelValues(source).Add(float64(n))
	}
}

func RecordFanoutFailure() { fanoutFailures.Inc() }

func RecordUpload(format string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	if format == "" {
		format = "unknown"
	}
	uploads.WithLabelValues(format, result).Inc()
}
