package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/rs/zerolog/log"
)

// LoginPath is where the front end sends a signed-out user
const LoginPath = "/login"

// Response represents a standard API response
type Response struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    any    `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message any) {
	write(w, status, Response{
		Success: false,
		Error:   message,
	})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Accepted sends a 202 Accepted response with data
func Accepted(w http.ResponseWriter, data any) {
	JSON(w, http.StatusAccepted, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message any) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message any) {
	Error(w, http.StatusUnauthorized, message)
}

// LoginRequired sends a 401 telling the front end to go to the login page
func LoginRequired(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, Response{
		Success:  false,
		Error:    "authentication required",
		Redirect: LoginPath,
	})
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message any) {
	Error(w, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict response
func Conflict(w http.ResponseWriter, message any) {
	Error(w, http.StatusConflict, message)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, message any) {
	Error(w, http.StatusInternalServerError, message)
}

// BackendError maps an error from the session, service or backend layers
// onto a response. A rejected session always becomes LoginRequired.
func BackendError(w http.ResponseWriter, err error) {
	var (
		validationErrors domain.ValidationErrors
		apiErr           *backend.APIError
	)

	switch {
	case backend.IsUnauthorized(err),
		errors.Is(err, session.ErrNoToken),
		errors.Is(err, service.ErrNotSignedIn):
		LoginRequired(w)

	case errors.As(err, &validationErrors):
		BadRequest(w, map[string]string(validationErrors))

	case errors.Is(err, chat.ErrInFlight):
		Conflict(w, err.Error())

	case errors.Is(err, chat.ErrEmptyInput), errors.Is(err, chat.ErrInputTooLong):
		BadRequest(w, err.Error())

	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			Error(w, apiErr.StatusCode, apiErr.Error())
			return
		}
		log.Error().Err(err).Int("status", apiErr.StatusCode).Msg("backend failure")
		Error(w, http.StatusBadGateway, apiErr.Error())

	default:
		log.Error().Err(err).Msg("backend unavailable")
		Error(w, http.StatusBadGateway, "campus backend unavailable")
	}
}
