package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connection metrics
	ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfriend_connections_total",
			Help: "Total number of accepted client connections",
		},
	)

	ConnectionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapfriend_connection_errors_total",
			Help: "Total number of connections ended by an error, by kind",
		},
		[]string{"kind"},
	)

	// Request metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapfriend_requests_total",
			Help: "Total number of mount requests by outcome",
		},
		[]string{"outcome"},
	)

	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapfriend_request_duration_seconds",
			Help:    "Mount request handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Snapshot metrics
	SnapshotsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfriend_snapshots_created_total",
			Help: "Total number of snapshots created",
		},
	)

	DefaultFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfriend_default_fallbacks_total",
			Help: "Total number of requests that fell back to the default volume",
		},
	)

	CatalogReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapfriend_catalog_reads_total",
			Help: "Total number of volume catalog reads by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(ConnectionErrors)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SnapshotsCreated)
	prometheus.MustRegister(DefaultFallbacks)
	prometheus.MustRegister(CatalogReads)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
