// Package metrics defines the Prometheus metrics of the profile service.
//
// All metrics register with the default registry on package init; expose them
// with Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "profile"

// LoadsTotal counts profile page loads.
// Label:
//   - result: "ok", "not_found", "not_authenticated", "store_error" or "error"
var LoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loads_total",
		Help:      "Total number of profile loads, by result.",
	},
	[]string{"result"},
)

// EditsTotal counts resolved edit submits.
// Label:
//   - outcome: "saved", "invalid" or "failed"
var EditsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edits_total",
		Help:      "Total number of profile edit submits, by outcome.",
	},
	[]string{"outcome"},
)

// ValidationFailuresTotal counts rejected fields.
// Label:
//   - field: the editable field that failed validation
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of field validation failures, by field.",
	},
	[]string{"field"},
)

// ListingsAggregated observes how many listings each load aggregated.
var ListingsAggregated = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listings_aggregated",
		Help:      "Number of listings reduced into statistics per profile load.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
