// Package metrics provides Prometheus instrumentation for the wizard service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ImportsTotal counts import parses by outcome (matched, empty).
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_imports_total",
		Help: "Total number of parsed imports",
	}, []string{"outcome"})

	// ImportFieldsTotal counts captured import fields by name.
	ImportFieldsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_import_fields_total",
		Help: "Fields recognised by the import parser",
	}, []string{"field"})

	// CalculationsTotal counts price calculations by direction and result.
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_calculations_total",
		Help: "Total certificate price calculations",
	}, []string{"mode", "result"})

	// DraftsFinishedTotal counts completed wizard runs by kind (created, edited).
	DraftsFinishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_drafts_finished_total",
		Help: "Wizard runs turned into stored instruments",
	}, []string{"kind"})

	// ActiveDrafts tracks open wizard sessions.
	ActiveDrafts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kowizard_active_drafts",
		Help: "Number of open draft sessions",
	})

	// QuoteRefreshTotal counts quote refresh cycles by result.
	QuoteRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_quote_refresh_total",
		Help: "Quote refresh cycles",
	}, []string{"result"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kowizard_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kowizard_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request metrics. The route pattern is used as path label
// to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
