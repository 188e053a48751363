package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Rrens/campus-console/internal/domain"
)

func studentPath(id string) string {
	return "/students/" + url.PathEscape(id)
}

// ListStudents returns every student record
func (c *Client) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var out []domain.Student
	if err := c.do(ctx, request{method: http.MethodGet, route: "/students/", path: "/students/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStudent fetches one record by student id
func (c *Client) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	if id == "" {
		return nil, fmt.Errorf("student id is required")
	}

	var out domain.Student
	if err := c.do(ctx, request{method: http.MethodGet, route: "/students/{id}", path: studentPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStudent adds a record
func (c *Client) CreateStudent(ctx context.Context, in domain.StudentCreate) (*domain.Student, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	var out domain.Student
	if err := c.do(ctx, request{method: http.MethodPost, route: "/students/", path: "/students/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent applies a partial update
func (c *Client) UpdateStudent(ctx context.Context, id string, in domain.StudentUpdate) (*domain.Student, error) {
	if id == "" {
		return nil, fmt.Errorf("student id is required")
	}
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	var out domain.Student
	if err := c.do(ctx, request{method: http.MethodPut, route: "/students/{id}", path: studentPath(id), body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a record
func (c *Client) DeleteStudent(ctx context.Context, id string) (*domain.StudentDeleteResult, error) {
	if id == "" {
		return nil, fmt.Errorf("student id is required")
	}

	var out domain.StudentDeleteResult
	if err := c.do(ctx, request{method: http.MethodDelete, route: "/students/{id}", path: studentPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentAnalytics returns the student overview aggregates
func (c *Client) StudentAnalytics(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	req := request{method: http.MethodGet, route: "/students/analytics/overview", path: "/students/analytics/overview"}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
