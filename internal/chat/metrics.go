package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "chat",
			Name:      "submits_total",
			Help:      "Submit calls by result.",
		},
		[]string{"result"},
	)

	feedsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "chat",
			Name:      "feeds_total",
			Help:      "Finished reply feeds by outcome.",
		},
		[]string{"outcome"},
	)

	fragmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "chat",
			Name:      "fragments_total",
			Help:      "Content fragments merged into assistant turns.",
		},
	)
)
