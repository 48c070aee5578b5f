package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansTotal counts completed scan passes
	ScansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifisentry",
			Name:      "scans_total",
			Help:      "Total number of completed scan passes",
		},
	)

	// NetworksObserved counts network records produced by the parser
	NetworksObserved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifisentry",
			Name:      "networks_observed_total",
			Help:      "Total number of network records observed across scans",
		},
	)

	// ThreatsDetected counts detected threats by type and severity
	ThreatsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifisentry",
			Name:      "threats_detected_total",
			Help:      "Total number of threats emitted by the detector",
		},
		[]string{"type", "severity"},
	)

	// ConnectionFailures counts connection failure events pushed by collaborators
	ConnectionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifisentry",
			Name:      "connection_failures_total",
			Help:      "Total number of recorded connection failures",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		// This prevents panics when metrics are already in the registry
		prometheus.DefaultRegisterer.Register(ScansTotal)
		prometheus.DefaultRegisterer.Register(NetworksObserved)
		prometheus.DefaultRegisterer.Register(ThreatsDetected)
		prometheus.DefaultRegisterer.Register(ConnectionFailures)
	})
}
