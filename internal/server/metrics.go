package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipecon_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chipecon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"route"},
	)

	sweepPoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipecon_sweep_points_total",
			Help: "Total number of sweep points computed",
		},
		[]string{"kind"},
	)

	sweepFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipecon_sweep_flagged_points_total",
			Help: "Total number of sweep points with non-finite values",
		},
		[]string{"kind"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chipecon_rate_limit_exceeded_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
