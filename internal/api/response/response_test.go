package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		redirect string
	}{
		{"session rejected", fmt.Errorf("failed to load user: %w", backend.ErrUnauthorized), http.StatusUnauthorized, "/login"},
		{"no token", session.ErrNoToken, http.StatusUnauthorized, "/login"},
		{"not signed in", service.ErrNotSignedIn, http.StatusUnauthorized, "/login"},
		{"credentials rejected", &backend.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}, http.StatusUnauthorized, ""},
		{"validation", domain.ValidationErrors{"Email": "invalid email format"}, http.StatusBadRequest, ""},
		{"in flight", chat.ErrInFlight, http.StatusConflict, ""},
		{"too long", chat.ErrInputTooLong, http.StatusBadRequest, ""},
		{"not found", &backend.APIError{StatusCode: http.StatusNotFound, Detail: "Student not found"}, http.StatusNotFound, ""},
		{"backend failure", &backend.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway, ""},
		{"network", errors.New("dial tcp: connection refused"), http.StatusBadGateway, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.BackendError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.redirect, resp.Redirect)
		})
	}
}
