package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

// StudentAPI is the backend surface for student records
type StudentAPI interface {
	ListStudents(ctx context.Context) ([]domain.Student, error)
	GetStudent(ctx context.Context, id string) (*domain.Student, error)
	CreateStudent(ctx context.Context, in domain.StudentCreate) (*domain.Student, error)
	UpdateStudent(ctx context.Context, id string, in domain.StudentUpdate) (*domain.Student, error)
	DeleteStudent(ctx context.Context, id string) (*domain.StudentDeleteResult, error)
}

// StudentPage is a filtered directory listing
type StudentPage struct {
	Students    []domain.Student `json:"students"`
	Departments []string         `json:"departments"`
	Shown       int              `json:"shown"`
	Total       int              `json:"total"`
}

// Summary renders the "N of M" counter
func (p StudentPage) Summary() string {
	return fmt.Sprintf("%d of %d students", p.Shown, p.Total)
}

// StudentService handles the student directory
type StudentService struct {
	api StudentAPI
}

// NewStudentService creates a new student service
func NewStudentService(api StudentAPI) *StudentService {
	return &StudentService{api: api}
}

// List fetches every record and applies filter locally. Departments are
// drawn from the unfiltered list.
func (s *StudentService) List(ctx context.Context, filter domain.StudentFilter) (*StudentPage, error) {
	all, err := s.api.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Student, 0, len(all))
	for _, st := range all {
		if filter.Match(st) {
			matched = append(matched, st)
		}
	}

	return &StudentPage{
		Students:    matched,
		Departments: Departments(all),
		Shown:       len(matched),
		Total:       len(all),
	}, nil
}

// Get fetches one record
func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.api.GetStudent(ctx, id)
}

// Create adds a record
func (s *StudentService) Create(ctx context.Context, in domain.StudentCreate) (*domain.Student, error) {
	st, err := s.api.CreateStudent(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Info().Str("student_id", st.StudentID).Msg("student created")
	return st, nil
}

// Update applies a partial update
func (s *StudentService) Update(ctx context.Context, id string, in domain.StudentUpdate) (*domain.Student, error) {
	st, err := s.api.UpdateStudent(ctx, id, in)
	if err != nil {
		return nil, err
	}
	log.Info().Str("student_id", id).Msg("student updated")
	return st, nil
}

// Delete removes a record
func (s *StudentService) Delete(ctx context.Context, id string) error {
	res, err := s.api.DeleteStudent(ctx, id)
	if err != nil {
		return err
	}
	if !res.Deleted {
		return fmt.Errorf("student %s was not deleted", id)
	}
	log.Info().Str("student_id", id).Msg("student deleted")
	return nil
}

// Departments returns the sorted set of departments in students
func Departments(students []domain.Student) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, st := range students {
		if st.Department == "" {
			continue
		}
		if _, ok := seen[st.Department]; ok {
			continue
		}
		seen[st.Department] = struct{}{}
		out = append(out, st.Department)
	}
	sort.Strings(out)
	return out
}
