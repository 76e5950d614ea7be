package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes
const (
	OutcomeRendered = "rendered"
	OutcomeCached   = "cached"
	OutcomeError    = "error"
)

// Metrics holds the block render instruments on a private registry
type Metrics struct {
	registry *prometheus.Registry

	Renders  *prometheus.CounterVec
	Items    *prometheus.HistogramVec
	Duration *prometheus.HistogramVec
}

// New creates and registers the instruments
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "episodeblock_renders_total",
				Help: "Block renders by outcome",
			},
			[]string{"block", "outcome"},
		),
		Items: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "episodeblock_items",
				Help:    "Number of items listed per render",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 10},
			},
			[]string{"block"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "episodeblock_render_duration_seconds",
				Help:    "Duration of block renders",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"block"},
		),
	}
	m.registry.MustRegister(m.Renders, m.Items, m.Duration)
	return m
}

// Observe records one render
func (m *Metrics) Observe(block, outcome string, items int, seconds float64) {
	m.Renders.WithLabelValues(block, outcome).Inc()
	if outcome == OutcomeError {
		return
	}
	m.Items.WithLabelValues(block).Observe(float64(items))
	m.Duration.WithLabelValues(block).Observe(seconds)
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
