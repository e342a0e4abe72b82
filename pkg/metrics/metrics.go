package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HeaderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "header_fetches_total",
			Help: "Total number of browser header fetches from the remote API.",
		},
		[]string{"status"}, // success, failure, empty
	)

	PageCapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_captures_total",
			Help: "Total number of page capture attempts.",
		},
		[]string{"engine", "status"},
	)

	PageCaptureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "page_capture_duration_seconds",
			Help:    "Duration of page captures, retries included.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"engine"},
	)

	AIExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_extractions_total",
			Help: "Total number of AI product extractions.",
		},
		[]string{"status"}, // success, empty, failure
	)

	AudioDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audio_downloads_total",
			Help: "Total number of audio download attempts.",
		},
		[]string{"status"},
	)
)
