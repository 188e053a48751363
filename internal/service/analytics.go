package service

import (
	"context"

	"github.com/Rrens/campus-console/internal/domain"
)

// RecentLimit caps the recently onboarded list on the dashboard
const RecentLimit = 6

// AnalyticsAPI is the backend surface for aggregates
type AnalyticsAPI interface {
	AnalyticsSummary(ctx context.Context) (*domain.Analytics, error)
	StudentAnalytics(ctx context.Context) (*domain.Analytics, error)
}

// DepartmentShare is a department bucket with its share of all students
type DepartmentShare struct {
	Department string  `json:"department"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
}

// Dashboard is the shaped analytics view
type Dashboard struct {
	TotalStudents   int               `json:"total_students"`
	ActiveLast7Days int               `json:"active_last_7_days"`
	Departments     []DepartmentShare `json:"departments"`
	Recent          []domain.Student  `json:"recent_onboarded"`
}

// AnalyticsService shapes backend aggregates for display
type AnalyticsService struct {
	api AnalyticsAPI
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(api AnalyticsAPI) *AnalyticsService {
	return &AnalyticsService{api: api}
}

// Dashboard fetches the summary aggregates
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	a, err := s.api.AnalyticsSummary(ctx)
	if err != nil {
		return nil, err
	}
	return Shape(*a), nil
}

// StudentOverview fetches the student overview aggregates
func (s *AnalyticsService) StudentOverview(ctx context.Context) (*Dashboard, error) {
	a, err := s.api.StudentAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	return Shape(*a), nil
}

// Shape computes department shares and trims the recent list
func Shape(a domain.Analytics) *Dashboard {
	return &Dashboard{
		TotalStudents:   a.TotalStudents,
		ActiveLast7Days: a.ActiveLast7Days,
		Departments:     Shares(a),
		Recent:          recent(a.RecentOnboarded),
	}
}

// Shares returns each department's share of TotalStudents in percent. A
// zero total is treated as one.
func Shares(a domain.Analytics) []DepartmentShare {
	total := a.TotalStudents
	if total < 1 {
		total = 1
	}

	out := make([]DepartmentShare, 0, len(a.StudentsByDepartment))
	for _, d := range a.StudentsByDepartment {
		out = append(out, DepartmentShare{
			Department: d.Department,
			Count:      d.Count,
			Percent:    float64(d.Count) / float64(total) * 100,
		})
	}
	return out
}

func recent(students []domain.Student) []domain.Student {
	if len(students) > RecentLimit {
		students = students[:RecentLimit]
	}
	return append([]domain.Student(nil), students...)
}
