// Package metrics exposes Prometheus counters for login error handling.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts explained upstream errors and internal defects.
type Metrics struct {
	registry    *prometheus.Registry
	loginErrors *prometheus.CounterVec
	defects     prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "globus_jupyterlab",
			Name:      "login_errors_total",
			Help:      "Upstream Globus errors explained to the frontend, by kind.",
		}, []string{"kind"}),
		defects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "globus_jupyterlab",
			Name:      "login_defects_total",
			Help:      "Internal defects hit while building a login directive.",
		}),
	}
	m.registry.MustRegister(m.loginErrors, m.defects)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// LoginError records one explained error.
func (m *Metrics) LoginError(kind string) {
	m.loginErrors.WithLabelValues(kind).Inc()
}

// LoginDefect records one internal defect.
func (m *Metrics) LoginDefect() {
	m.defects.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
