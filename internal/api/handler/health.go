package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including state store connectivity
func ReadyCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("state store not ready")
			response.Error(w, http.StatusServiceUnavailable, "state store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
