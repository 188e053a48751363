package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/security"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/rs/zerolog/log"
)

// SessionManager is the session surface the console drives
type SessionManager interface {
	Snapshot() domain.Session
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, email, username, password, fullName string) error
	Logout(ctx context.Context) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	sessions SessionManager
	profiles *service.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionManager, profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles}
}

// sessionView is the console's description of the current session. The
// token itself never leaves the process.
type sessionView struct {
	IsAuthenticated bool                `json:"is_authenticated"`
	IsLoading       bool                `json:"is_loading"`
	User            *domain.UserProfile `json:"user,omitempty"`
	Token           *security.TokenInfo `json:"token,omitempty"`
	TokenExpired    bool                `json:"token_expired,omitempty"`
}

func (h *AuthHandler) view() sessionView {
	snap := h.sessions.Snapshot()
	v := sessionView{
		IsAuthenticated: snap.IsAuthenticated,
		IsLoading:       snap.IsLoading,
		User:            snap.User,
	}

	if snap.Token != "" {
		info, err := security.InspectToken(snap.Token)
		if err != nil {
			log.Debug().Err(err).Msg("session token is not a JWT")
		} else {
			v.Token = info
			v.TokenExpired = info.Expired(time.Now())
		}
	}
	return v
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.sessions.Login(r.Context(), input.Username, input.Password); err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, h.view())
}

// Signup handles registration followed by sign-in
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.sessions.Signup(r.Context(), input.Email, input.Username, input.Password, input.FullName); err != nil {
		response.BackendError(w, err)
		return
	}

	response.Created(w, h.view())
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		response.InternalError(w, "failed to clear session")
		return
	}

	response.NoContent(w)
}

// Session describes the current session without requiring one
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.view())
}

// Me returns the signed-in profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.Snapshot()
	if snap.User == nil {
		response.LoginRequired(w)
		return
	}

	response.OK(w, snap.User)
}

// UpdateMe applies a profile edit
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var form domain.ProfileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.profiles.Update(r.Context(), form)
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, user)
}

// Users lists every account
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.profiles.Users(r.Context())
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, users)
}
