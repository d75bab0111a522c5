package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/compras/internal/pipeline"
)

// metrics holds the server's collectors on a private registry so tests can
// build several services in one process.
type metrics struct {
	registry *prometheus.Registry
	reports  *prometheus.CounterVec
	records  prometheus.Histogram
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compras",
			Name:      "reports_total",
			Help:      "Reports requested, by batch source and outcome.",
		}, []string{"source", "outcome"}),
		records: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compras",
			Name:      "report_records",
			Help:      "Rows remaining after filtering, per report.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "compras",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.reports,
		m.records,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeReport(source string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, pipeline.ErrNoData):
		outcome = "no_data"
	case err != nil:
		outcome = "error"
	}
	if source == "" {
		source = "none"
	}
	m.reports.WithLabelValues(source, outcome).Inc()
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.duration.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
