package petsite

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records build and dev server activity on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg           *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	images        *prom.CounterVec
	pages         prom.Gauge
	outputBytes   prom.Gauge
	reloadClients prom.Gauge
}

// NewMetrics constructs and registers the petsite collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prom.NewRegistry(),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "petsite",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petsite",
			Name:      "build_outcomes_total",
			Help:      "Builds by outcome",
		}, []string{"outcome"}),
		images: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petsite",
			Name:      "image_variants_total",
			Help:      "Image variants by result (encoded, reused, failed)",
		}, []string{"result"}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: "petsite",
			Name:      "last_build_pages",
			Help:      "Pages rendered in the most recent build",
		}),
		outputBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: "petsite",
			Name:      "last_build_output_bytes",
			Help:      "Bytes written by the most recent build",
		}),
		reloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: "petsite",
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}
	m.reg.MustRegister(m.buildDuration, m.buildOutcome, m.images, m.pages, m.outputBytes, m.reloadClients)
	return m
}

// ObserveBuild records a finished build.
func (m *Metrics) ObserveBuild(d time.Duration, r *Report, err error) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
	if err != nil {
		m.buildOutcome.WithLabelValues("failed").Inc()
		return
	}
	m.buildOutcome.WithLabelValues("success").Inc()
	if r != nil {
		m.pages.Set(float64(r.Pages))
		m.outputBytes.Set(float64(r.Bytes))
	}
}

// IncImage counts one variant with result "encoded", "reused" or "failed".
func (m *Metrics) IncImage(result string) {
	if m == nil {
		return
	}
	m.images.WithLabelValues(result).Inc()
}

// SetReloadClients reports the number of live reload connections.
func (m *Metrics) SetReloadClients(n int) {
	if m == nil {
		return
	}
	m.reloadClients.Set(float64(n))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prom.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	// Compression is left to the server middleware.
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{DisableCompression: true})
}
