// Package metrics exposes Prometheus collectors for the refresh pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ctcscraper"

// Metrics owns its registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Refreshes         *prometheus.CounterVec // result: changed, unchanged, skipped
	RefreshDuration   prometheus.Histogram
	SourceEntries     *prometheus.GaugeVec   // source
	Entries           *prometheus.GaugeVec   // state: total, deleted, unresolved
	LengthResolutions *prometheus.CounterVec // result: resolved, absent
	StoreErrors       prometheus.Counter
	Mutations         *prometheus.CounterVec // op, result
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Refresh runs by outcome.",
		}, []string{"result"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a full refresh including length enrichment.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SourceEntries: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_entries",
			Help:      "Entries returned by each source on the last refresh.",
		}, []string{"source"}),
		Entries: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Entries in the collection by state.",
		}, []string{"state"}),
		LengthResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "length_resolutions_total",
			Help:      "Video length lookups by outcome.",
		}, []string{"result"}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_save_errors_total",
			Help:      "Snapshot saves that failed.",
		}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "User mutations by operation and outcome.",
		}, []string{"op", "result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
