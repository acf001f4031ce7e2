// Package metrics exposes Prometheus counters for settlement rounds,
// admin overrides and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one server instance
type Metrics struct {
	registry *prometheus.Registry

	Rounds       prometheus.Counter
	Outcomes     *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	Overrides    prometheus.Counter
	Points       *prometheus.GaugeVec
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classbet_settlement_rounds_total",
			Help: "Settlement rounds committed",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classbet_bet_outcomes_total",
			Help: "Settled bets by outcome",
		}, []string{"outcome"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classbet_settlement_rejected_total",
			Help: "Settlement requests rejected before any write",
		}, []string{"reason"}),
		Overrides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classbet_admin_overrides_total",
			Help: "Admin point overrides committed",
		}),
		Points: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "classbet_points",
			Help: "Current points per class",
		}, []string{"class"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classbet_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.Rounds,
		m.Outcomes,
		m.Rejected,
		m.Overrides,
		m.Points,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRound counts one committed round and its per-class outcomes
func (m *Metrics) RecordRound(outcomes map[string]string) {
	m.Rounds.Inc()
	for _, kind := range outcomes {
		m.Outcomes.WithLabelValues(kind).Inc()
	}
}

// RecordRejected counts a refused settlement request
func (m *Metrics) RecordRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}

// RecordOverride counts one committed admin override
func (m *Metrics) RecordOverride() {
	m.Overrides.Inc()
}

// SetPoints mirrors the current points into the gauge
func (m *Metrics) SetPoints(points map[string]int) {
	for class, v := range points {
		m.Points.WithLabelValues(class).Set(float64(v))
	}
}

// Middleware counts requests by their chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
