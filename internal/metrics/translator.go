package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query translation Prometheus metrics.
var (
	TranslatorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedex",
			Name:      "translator_requests_total",
			Help:      "Total number of free-text query translations",
		},
		[]string{"provider", "status"},
	)

	TranslatorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "venuedex",
			Name:      "translator_request_duration_seconds",
			Help:      "Query translation duration in seconds, model call included",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"provider"},
	)

	// TranslatorErrorsTotal is labelled by stage: upstream, json, schema.
	TranslatorErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedex",
			Name:      "translator_errors_total",
			Help:      "Total query translation failures by stage",
		},
		[]string{"provider", "stage"},
	)
)

var translatorMetricsRegistered bool

// RegisterTranslatorMetrics registers Prometheus translator metrics. Must be called once from main.
func RegisterTranslatorMetrics() {
	if translatorMetricsRegistered {
		return
	}
	prometheus.MustRegister(TranslatorRequestsTotal)
	prometheus.MustRegister(TranslatorRequestDuration)
	prometheus.MustRegister(TranslatorErrorsTotal)
	translatorMetricsRegistered = true
}
