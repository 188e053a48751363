package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend requests by route and status class.",
		},
		[]string{"route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus_console",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	streamEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "backend",
			Name:      "stream_events_total",
			Help:      "Parsed stream events by kind. Skipped frames are counted as \"skipped\".",
		},
		[]string{"kind"},
	)
)

func statusLabel(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code == 401:
		return "401"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
