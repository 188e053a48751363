package domain

import "strings"

// Student is a student record as returned by the backend
type Student struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// StudentCreate represents student creation data
type StudentCreate struct {
	StudentID  string `json:"student_id" validate:"required,max=64"`
	Name       string `json:"name" validate:"required,max=255"`
	Department string `json:"department" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
}

// StudentUpdate represents a partial student update
type StudentUpdate struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=255"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
}

// StudentDeleteResult is returned by the delete endpoint
type StudentDeleteResult struct {
	Deleted bool `json:"deleted"`
}

// StudentFilter narrows a student list. Empty fields match everything.
type StudentFilter struct {
	Search     string
	Department string
}

// Match reports whether s passes the filter. Search is a case-insensitive
// substring match over name, student id and email.
func (f StudentFilter) Match(s Student) bool {
	if f.Department != "" && f.Department != "all" && s.Department != f.Department {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.StudentID), q) ||
		strings.Contains(strings.ToLower(s.Email), q)
}
