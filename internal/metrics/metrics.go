// Package metrics exposes Prometheus collectors for the HTTP surface
// and the background jobs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	BookingEventsTotal  *prometheus.CounterVec
	JobRunsTotal        *prometheus.CounterVec
	JobDuration         *prometheus.HistogramVec
}

func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status code.",
			ConstLabels: labels,
		}, []string{"route", "method", "code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route and method.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		BookingEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_total",
			Help:        "Booking lifecycle events that committed.",
			ConstLabels: labels,
		}, []string{"event"}),
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "job_runs_total",
			Help:        "Background job executions by job name and outcome.",
			ConstLabels: labels,
		}, []string{"job", "outcome"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "job_duration_seconds",
			Help:        "Background job run time by job name.",
			ConstLabels: labels,
			Buckets:     []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
	}
}
