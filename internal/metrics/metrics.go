// Package metrics provides Prometheus metrics for FileBridge.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebridge_intents_total",
			Help: "Total number of intents received, by action and entry point",
		},
		[]string{"action", "entry"},
	)

	resolveFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebridge_resolve_failures_total",
			Help: "URIs that did not resolve to a file path",
		},
		[]string{"reason"},
	)

	pathsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebridge_paths_total",
			Help: "Resolved paths by outcome (accepted or rejected by suffix)",
		},
		[]string{"outcome"},
	)

	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebridge_deliveries_total",
			Help: "Paths delivered to the application core, by bridge direction",
		},
		[]string{"via"},
	)
)

// RecordIntent counts an intent arriving at an entry point.
func RecordIntent(action, entry string) {
	if action == "" {
		action = "none"
	}
	intentsTotal.WithLabelValues(action, entry).Inc()
}

// RecordResolveFailure counts a URI that yielded no path.
func RecordResolveFailure(reason string) {
	resolveFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordPath counts a resolved path as accepted or rejected.
func RecordPath(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	pathsTotal.WithLabelValues(outcome).Inc()
}

// RecordDelivery counts a path handed to the core ("push" or "pull").
func RecordDelivery(via string) {
	deliveriesTotal.WithLabelValues(via).Inc()
}

// ResolveFailures returns the counter for reason; used by tests.
func ResolveFailures(reason string) prometheus.Counter {
	return resolveFailuresTotal.WithLabelValues(reason)
}

// Deliveries returns the counter for via; used by tests.
func Deliveries(via string) prometheus.Counter {
	return deliveriesTotal.WithLabelValues(via)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
