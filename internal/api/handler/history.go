package handler

import (
	"net/http"

	"github.com/Rrens/campus-console/internal/api/middleware"
	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/go-chi/chi/v5"
)

// HistoryHandler serves stored chat exchanges
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns the current user's history grouped by date, filtered by ?q=
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.history.View(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, view)
}

// Session returns the exchanges of one session
func (h *HistoryHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		response.LoginRequired(w)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		response.BadRequest(w, "missing session ID")
		return
	}

	entries, err := h.history.Session(r.Context(), user.ID, sessionID)
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, entries)
}

// Clear deletes all of the current user's history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.history.Clear(r.Context())
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"message":       "history cleared",
		"deleted_count": deleted,
	})
}
