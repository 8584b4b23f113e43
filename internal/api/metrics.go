package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "wayne"

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so parallel tests do not collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	loginAttempts  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. wsClients reports the
// live feed's connection count at scrape time.
func NewMetrics(wsClients func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		guardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "guard_decisions_total",
				Help:      "Authorization decisions by required level and result.",
			},
			[]string{"level", "decision"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route pattern and status code.",
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.loginAttempts,
		m.guardDecisions,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "websocket_clients",
				Help:      "Connected live feed clients.",
			},
			func() float64 { return float64(wsClients()) },
		),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeLogin(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeGuard(level, decision string) {
	m.guardDecisions.WithLabelValues(level, decision).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
