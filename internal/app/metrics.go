package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP request instrumentation exported at /metrics.
//
// Label cardinality is bounded: path is the registered route pattern space
// only (raw task ids are collapsed), status is the class ("2xx", "4xx", ...).
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewMetrics builds a fresh registry with go/process collectors and the
// request counter/histogram pair.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskd",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskd",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, durations)

	return &Metrics{
		registry:  reg,
		requests:  requests,
		durations: durations,
	}
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a completed request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	route := collapseRoute(path)
	m.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.durations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// collapseRoute maps /tasks/<id> onto the /tasks/{id} route label.
func collapseRoute(path string) string {
	const prefix = "/tasks/"
	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return "/tasks/{id}"
	}
	return path
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
