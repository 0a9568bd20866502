package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "onlineretail"

// Metrics regroupe les métriques Prometheus de l'ETL et de l'API
// Chaque instance possède son propre registre (pas de registre global, testable)
type Metrics struct {
	registry *prometheus.Registry

	// ETL
	RowsRead          prometheus.Counter
	RowsDropped       prometheus.Counter
	FieldsDefaulted   *prometheus.CounterVec
	EntitiesLoaded    *prometheus.CounterVec
	LoadDuration      prometheus.Histogram
	LoadFailuresTotal prometheus.Counter

	// API
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics crée et enregistre toutes les métriques
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "rows_read_total",
			Help:      "Rows read from the source file",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "rows_dropped_total",
			Help:      "Rows skipped because invoice number, customer id or stock code was missing",
		}),
		FieldsDefaulted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "fields_defaulted_total",
			Help:      "Unparseable fields replaced by their default value",
		}, []string{"field"}),
		EntitiesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "entities_loaded_total",
			Help:      "Entities submitted to the store in a committed load",
		}, []string{"entity"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "load_duration_seconds",
			Help:      "Duration of the bulk load transaction",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		LoadFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "etl",
			Name:      "load_failures_total",
			Help:      "Bulk loads rolled back",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.FieldsDefaulted,
		m.EntitiesLoaded,
		m.LoadDuration,
		m.LoadFailuresTotal,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler expose les métriques au format Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteToTextfile écrit les métriques dans un fichier (collecteur textfile de node_exporter).
// Utilisé par l'ETL, qui est un processus trop court pour être scrappé.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
