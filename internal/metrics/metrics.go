// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	stepQueries   *prometheus.CounterVec
	thumbnailJobs *prometheus.CounterVec
	thumbnailTime prometheus.Histogram
	queueDepth    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportftv",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sportftv",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		stepQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportftv",
			Name:      "selection_step_queries_total",
			Help:      "Selection chain queries by step and outcome.",
		}, []string{"step", "outcome"}),
		thumbnailJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportftv",
			Name:      "thumbnail_jobs_total",
			Help:      "Thumbnail pipeline runs by final status.",
		}, []string{"status"}),
		thumbnailTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sportftv",
			Name:      "thumbnail_job_duration_seconds",
			Help:      "Wall time of thumbnail pipeline runs.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sportftv",
			Name:      "thumbnail_queue_depth",
			Help:      "Jobs waiting in the thumbnail queue at last poll.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.stepQueries,
		m.thumbnailJobs,
		m.thumbnailTime,
		m.queueDepth,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveStep counts one selection chain query. outcome is "ok", "empty"
// or "error".
func (m *Metrics) ObserveStep(step, outcome string) {
	m.stepQueries.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) ObserveThumbnail(status string, d time.Duration) {
	m.thumbnailJobs.WithLabelValues(status).Inc()
	if d > 0 {
		m.thumbnailTime.Observe(d.Seconds())
	}
}

func (m *Metrics) SetQueueDepth(n int64) {
	m.queueDepth.Set(float64(n))
}
