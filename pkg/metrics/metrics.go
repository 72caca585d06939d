// Package metrics exposes Prometheus counters for translation runs. Metrics
// are registered on a dedicated registry so embedding applications can mount
// or scrape them without touching the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the converter's metrics registry.
var Registry = prometheus.NewRegistry()

var (
	// ComponentsBuilt counts components added to the system per type.
	ComponentsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "r2x_reeds",
			Name:      "components_built_total",
			Help:      "Components added to the system, by component type.",
		},
		[]string{"component_type"},
	)

	// RowErrors counts rows that failed construction per builder phase.
	RowErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "r2x_reeds",
			Name:      "row_errors_total",
			Help:      "Rows that failed component construction, by phase.",
		},
		[]string{"phase"},
	)

	// DatasetsRead counts dataset loads, by dataset name.
	DatasetsRead = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "r2x_reeds",
			Name:      "datasets_read_total",
			Help:      "Datasets materialized from the data store.",
		},
		[]string{"dataset"},
	)

	// PhaseDuration observes wall time per builder phase.
	PhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "r2x_reeds",
			Name:      "phase_duration_seconds",
			Help:      "Duration of each builder phase.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"phase"},
	)
)

func init() {
	Registry.MustRegister(ComponentsBuilt, RowErrors, DatasetsRead, PhaseDuration)
}
