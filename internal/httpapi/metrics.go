package httpapi

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	idsGenerated     *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	requests         *prometheus.CounterVec
}

// NewMetrics creates and registers the service collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		idsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nanogen_ids_generated_total",
			Help: "IDs generated, by profile.",
		}, []string{"profile"}),
		generateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nanogen_generate_duration_seconds",
			Help:    "Time spent generating one batch of IDs.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"profile"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nanogen_http_requests_total",
			Help: "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.idsGenerated,
		m.generateDuration,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeIssue(profile string, count int, seconds float64) {
	m.idsGenerated.WithLabelValues(profile).Add(float64(count))
	m.generateDuration.WithLabelValues(profile).Observe(seconds)
}

func (m *Metrics) observeRequest(route string, status int) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
