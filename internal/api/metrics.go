package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	mutations *prometheus.CounterVec
	clients   prometheus.Gauge
}

// newMetrics uses a private registry so several handlers can coexist in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientbook_mutations_total",
			Help: "Committed client mutations by operation.",
		}, []string{"op"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clientbook_clients",
			Help: "Clients in the collection at the last full read.",
		}),
	}
	m.registry.MustRegister(m.requests, m.mutations, m.clients)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts requests under a fixed route label, never the raw path.
func (m *metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
