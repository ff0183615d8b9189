package metrics

import (
	"net/http"

	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RESULT_OK    = "ok"
	RESULT_ERROR = "error"
)

// Registry holds the conversion metrics on a dedicated prometheus registry.
type Registry struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionRounds   prometheus.Histogram
	ConversionDuration prometheus.Histogram
	NetworkComponents  *prometheus.GaugeVec
	NetworkConnections *prometheus.GaugeVec
	NetworkSkipped     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// ensure interface compliance
var _ port.ConversionRecorder = (*Registry)(nil)

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.ConversionsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatnet_conversions_total",
			Help: "Total number of network conversions",
		},
		[]string{"result"}, // ok, error
	)

	r.ConversionRounds = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_conversion_rounds",
			Help:    "Number of fixpoint rounds needed to convert a network",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	r.ConversionDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_conversion_duration_seconds",
			Help:    "Duration of network conversions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.NetworkComponents = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "heatnet_network_components",
			Help: "Number of components in the last successful conversion",
		},
		[]string{"network"},
	)

	r.NetworkConnections = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "heatnet_network_connections",
			Help: "Number of connections in the last successful conversion",
		},
		[]string{"network"},
	)

	r.NetworkSkipped = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "heatnet_network_skipped_assets",
			Help: "Number of assets excluded from the last successful conversion",
		},
		[]string{"network"},
	)

	reg.MustRegister(collectors.NewGoCollector())
	return r
}

// ObserveConversion records the outcome of one conversion. Network gauges
// keep the last successful values.
func (r *Registry) ObserveConversion(report domain.NetworkReport, seconds float64) {
	r.ConversionDuration.Observe(seconds)
	if !report.Ok() {
		r.ConversionsTotal.WithLabelValues(RESULT_ERROR).Inc()
		return
	}
	r.ConversionsTotal.WithLabelValues(RESULT_OK).Inc()
	r.ConversionRounds.Observe(float64(report.Rounds))
	r.NetworkComponents.WithLabelValues(report.Name).Set(float64(len(report.Components)))
	r.NetworkConnections.WithLabelValues(report.Name).Set(float64(len(report.Connections)))
	r.NetworkSkipped.WithLabelValues(report.Name).Set(float64(len(report.Skipped)))
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
