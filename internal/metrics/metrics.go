// Package metrics exposes Prometheus metrics for rendering, behavior
// decoding and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "widgetry"

// Metrics owns its registry so that tests and multiple servers in one
// process do not collide on the global one. The recording methods are no-ops
// on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	renders           *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	behaviorEvents    *prometheus.CounterVec
	validationResults *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	storedTimelines   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Widgets rendered, by widget and outcome",
		}, []string{"widget", "outcome"}),

		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time spent rendering a widget",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"widget"}),

		behaviorEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "behavior",
			Name:      "events_total",
			Help:      "Decoded behavior events, by widget and event name",
		}, []string{"widget", "event"}),

		validationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datepicker",
			Name:      "validation_results_total",
			Help:      "Date validation outcomes",
		}, []string{"result"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method and status",
		}, []string{"method", "status"}),

		storedTimelines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "timelines",
			Help:      "Timelines currently stored",
		}),
	}

	m.registry.MustRegister(
		m.renders,
		m.renderDuration,
		m.behaviorEvents,
		m.validationResults,
		m.httpRequests,
		m.storedTimelines,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRender records one render of widget that started at start.
func (m *Metrics) ObserveRender(widget string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(widget, outcome).Inc()
	m.renderDuration.WithLabelValues(widget).Observe(time.Since(start).Seconds())
}

func (m *Metrics) CountBehavior(widget, event string) {
	if m == nil {
		return
	}
	m.behaviorEvents.WithLabelValues(widget, event).Inc()
}

func (m *Metrics) CountValidation(result string) {
	if m == nil {
		return
	}
	m.validationResults.WithLabelValues(result).Inc()
}

func (m *Metrics) CountRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) SetStoredTimelines(n int) {
	if m == nil {
		return
	}
	m.storedTimelines.Set(float64(n))
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
