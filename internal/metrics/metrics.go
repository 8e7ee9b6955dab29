// Package metrics holds the Prometheus collectors of the API process.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pocketbook"

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	reconcileRuns     *prometheus.CounterVec
	reconcileDuration prometheus.Histogram
	walletsChecked    prometheus.Gauge
	walletsDrifted    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation sweeps by outcome.",
		}, []string{"outcome"}),
		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		walletsChecked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_wallets_checked",
			Help:      "Wallets checked by the last reconciliation sweep.",
		}),
		walletsDrifted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_wallets_drifted",
			Help:      "Wallets whose balance disagreed with their entries in the last sweep.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.reconcileRuns,
		m.reconcileDuration,
		m.walletsChecked,
		m.walletsDrifted,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records every request under its chi route pattern, so path
// parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
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

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveReconcile records one finished sweep. A failed sweep leaves the wallet
// gauges at their previous values.
func (m *Metrics) ObserveReconcile(checked, drifted int, took time.Duration, err error) {
	m.reconcileDuration.Observe(took.Seconds())

	if err != nil {
		m.reconcileRuns.WithLabelValues("error").Inc()
		return
	}

	m.reconcileRuns.WithLabelValues("ok").Inc()
	m.walletsChecked.Set(float64(checked))
	m.walletsDrifted.Set(float64(drifted))
}
