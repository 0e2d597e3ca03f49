package metrics

import "github.com/prometheus/client_golang/prometheus"

// Bulk embedding regeneration Prometheus metrics.
var (
	ReembedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedex",
			Name:      "reembed_items_total",
			Help:      "Businesses processed by bulk embedding regeneration",
		},
		[]string{"status"},
	)

	ReembedInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "venuedex",
			Name:      "reembed_in_flight",
			Help:      "Embedding computations currently running in the regeneration pool",
		},
	)
)

var reembedMetricsRegistered bool

// RegisterReembedMetrics registers Prometheus regeneration metrics. Must be called once from main.
func RegisterReembedMetrics() {
	if reembedMetricsRegistered {
		return
	}
	prometheus.MustRegister(ReembedItemsTotal)
	prometheus.MustRegister(ReembedInFlight)
	reembedMetricsRegistered = true
}
