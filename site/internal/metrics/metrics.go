// Package metrics defines the Prometheus collectors of the site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polaris_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polaris_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// CMSRequestTotal counts content API calls by resource and status.
	// Transport failures are recorded with status "error".
	CMSRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polaris_cms_requests_total",
			Help: "Total number of content API requests",
		},
		[]string{"method", "resource", "status"},
	)
	// CMSRequestDuration is the latency of content API calls.
	CMSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polaris_cms_request_duration_seconds",
			Help:    "Content API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)
	// SectionsRendered counts rendered dynamic-zone sections by component.
	SectionsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polaris_sections_rendered_total",
			Help: "Total number of rendered page sections",
		},
		[]string{"component"},
	)
	// OperationsTotal counts tooling operations (seed, permissions, media sync).
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polaris_operations_total",
			Help: "Total number of content tooling operations",
		},
		[]string{"operation", "status"},
	)
)

// Status labels for OperationsTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Observe records the outcome of a tooling operation.
func Observe(operation string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}
