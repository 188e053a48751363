package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/go-chi/chi/v5"
)

// StudentHandler handles the student directory endpoints
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List returns the directory filtered by ?search= and ?department=
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.StudentFilter{
		Search:     r.URL.Query().Get("search"),
		Department: r.URL.Query().Get("department"),
	}

	page, err := h.students.List(r.Context(), filter)
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"students":    page.Students,
		"departments": page.Departments,
		"shown":       page.Shown,
		"total":       page.Total,
		"summary":     page.Summary(),
	})
}

// Get returns one student
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.students.Get(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, st)
}

// Create adds a student
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.StudentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	st, err := h.students.Create(r.Context(), input)
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.Created(w, st)
}

// Update applies a partial update
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.StudentUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	st, err := h.students.Update(r.Context(), chi.URLParam(r, "studentID"), input)
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, st)
}

// Delete removes a student
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.students.Delete(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		response.BackendError(w, err)
		return
	}

	response.NoContent(w)
}
