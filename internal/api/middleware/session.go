package middleware

import (
	"context"
	"net/http"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// SessionSource exposes the current session
type SessionSource interface {
	Snapshot() domain.Session
}

// SessionGuard rejects requests while no validated session exists
type SessionGuard struct {
	sessions SessionSource
}

// NewSessionGuard creates a new session guard
func NewSessionGuard(sessions SessionSource) *SessionGuard {
	return &SessionGuard{sessions: sessions}
}

// Require answers 401 with a login redirect unless the session is
// authenticated, and puts the signed-in profile in the request context.
func (g *SessionGuard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := g.sessions.Snapshot()
		if !snap.IsAuthenticated || snap.User == nil {
			response.LoginRequired(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, *snap.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser gets the signed-in profile from context
func GetUser(ctx context.Context) (domain.UserProfile, bool) {
	user, ok := ctx.Value(UserKey).(domain.UserProfile)
	return user, ok
}
