package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultNamespace matches the METRICS_PREFIX default; InitMetrics rebuilds
// the metrics under the configured prefix when it differs.
const defaultNamespace = "entrance_client"

var namespace string

var (
	// Login counter
	LoginCounter prometheus.Counter

	// Registration counter
	RegisterCounter prometheus.Counter

	// Session probe counter by outcome ("authenticated" or "anonymous")
	SessionProbeCounter *prometheus.CounterVec

	// Outgoing API request counter by endpoint and status
	APIRequestCounter *prometheus.CounterVec

	// Unreachable backend counter
	UnreachableCounter prometheus.Counter

	// Error counter by type ("login_failure", "probe_failure", "validation", ...)
	AuthErrorCounter *prometheus.CounterVec

	// Outgoing request duration
	RequestDuration *prometheus.HistogramVec

	// Session state: 1 when the local cache holds a profile, 0 otherwise
	SessionStateGauge prometheus.Gauge

	// System info
	InfoGauge *prometheus.GaugeVec
)

// build creates every metric under the given namespace
func build(ns string) {
	namespace = ns

	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "login_total",
			Help:      "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "register_total",
			Help:      "Total number of registration attempts",
		},
	)

	SessionProbeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "session_probe_total",
			Help:      "Total number of authoritative session probes by outcome",
		},
		[]string{"outcome"},
	)

	APIRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "api_requests_total",
			Help:      "Total number of outgoing API requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	UnreachableCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "backend_unreachable_total",
			Help:      "Total number of requests that failed before reaching the backend",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "auth_errors_total",
			Help:      "Total number of authentication errors",
		},
		[]string{"type"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of outgoing API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	SessionStateGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "session_authenticated",
			Help:      "Whether the local session cache currently holds a profile",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Information about the entrance client",
		},
		[]string{"version", "demo_mode"},
	)
}

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		LoginCounter,
		RegisterCounter,
		SessionProbeCounter,
		APIRequestCounter,
		UnreachableCounter,
		AuthErrorCounter,
		RequestDuration,
		SessionStateGauge,
		InfoGauge,
	}
}

func init() {
	build(defaultNamespace)
	for _, c := range collectors() {
		prometheus.MustRegister(c)
	}
}

// InitMetrics applies the configured metric prefix and records static client
// information. It must run before any traffic.
func InitMetrics(prefix, version string, demoMode bool) {
	if prefix != "" && prefix != namespace {
		for _, c := range collectors() {
			prometheus.Unregister(c)
		}
		build(prefix)
		for _, c := range collectors() {
			prometheus.MustRegister(c)
		}
	}

	InfoGauge.With(prometheus.Labels{
		"version":   version,
		"demo_mode": strconv.FormatBool(demoMode),
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// ObserveAPIRequest records a completed outgoing request. Status 0 means the
// request never reached the backend.
func ObserveAPIRequest(endpoint, method string, status int, start time.Time) {
	statusStr := strconv.Itoa(status)
	labels := prometheus.Labels{
		"endpoint": endpoint,
		"method":   method,
		"status":   statusStr,
	}
	APIRequestCounter.With(labels).Inc()
	RequestDuration.With(labels).Observe(time.Since(start).Seconds())
	if status == 0 {
		UnreachableCounter.Inc()
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordSessionProbe records the outcome of an authoritative session probe
func RecordSessionProbe(authenticated bool) {
	outcome := "anonymous"
	if authenticated {
		outcome = "authenticated"
	}
	SessionProbeCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// SetSessionState updates the session state gauge
func SetSessionState(authenticated bool) {
	if authenticated {
		SessionStateGauge.Set(1)
		return
	}
	SessionStateGauge.Set(0)
}
