// Package metrics holds the Prometheus collectors of the console.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legalcase_console"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the legal case API.",
		},
		[]string{"method", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests sent to the legal case API.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method"},
	)

	sessionPhase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "phase",
			Help:      "1 for the current session phase, 0 otherwise.",
		},
		[]string{"phase"},
	)

	tenantFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "fetches_total",
			Help:      "Tenant fetches by outcome (loaded, failed, cancelled).",
		},
		[]string{"outcome"},
	)

	consoleRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of console page requests.",
		},
		[]string{"method", "status"},
	)

	consoleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of console page requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(apiRequests, apiDuration, sessionPhase, tenantFetches, consoleRequests, consoleDuration)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveAPIRequest records one round trip to the API. status is 0 when
// the request never produced a response.
func ObserveAPIRequest(method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	apiRequests.WithLabelValues(method, label).Inc()
	apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// SetSessionPhase marks phase as the only active session phase.
func SetSessionPhase(phase string, all []string) {
	for _, p := range all {
		v := 0.0
		if p == phase {
			v = 1
		}
		sessionPhase.WithLabelValues(p).Set(v)
	}
}

func ObserveTenantFetch(outcome string) {
	tenantFetches.WithLabelValues(outcome).Inc()
}

func ObserveConsoleRequest(method string, status int, elapsed time.Duration) {
	consoleRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	consoleDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
