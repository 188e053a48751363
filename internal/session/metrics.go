package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "session",
			Name:      "auth_attempts_total",
			Help:      "Login and signup attempts by outcome.",
		},
		[]string{"kind", "outcome"},
	)

	forcedLogoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "campus_console",
			Subsystem: "session",
			Name:      "forced_logouts_total",
			Help:      "Sessions cleared because the backend answered 401.",
		},
	)
)

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
