package handler

import (
	"net/http"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/service"
)

// AnalyticsHandler serves the dashboard aggregates
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard returns the campus summary
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, d)
}

// Students returns the student overview
func (h *AnalyticsHandler) Students(w http.ResponseWriter, r *http.Request) {
	d, err := h.analytics.StudentOverview(r.Context())
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, d)
}
