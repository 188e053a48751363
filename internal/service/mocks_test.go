package service

import (
	"context"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockStudentAPI mocks the StudentAPI interface
type MockStudentAPI struct {
	mock.Mock
}

func (m *MockStudentAPI) ListStudents(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentAPI) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentAPI) CreateStudent(ctx context.Context, in domain.StudentCreate) (*domain.Student, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentAPI) UpdateStudent(ctx context.Context, id string, in domain.StudentUpdate) (*domain.Student, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentAPI) DeleteStudent(ctx context.Context, id string) (*domain.StudentDeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDeleteResult), args.Error(1)
}

// MockAnalyticsAPI mocks the AnalyticsAPI interface
type MockAnalyticsAPI struct {
	mock.Mock
}

func (m *MockAnalyticsAPI) AnalyticsSummary(ctx context.Context) (*domain.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analytics), args.Error(1)
}

func (m *MockAnalyticsAPI) StudentAnalytics(ctx context.Context) (*domain.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analytics), args.Error(1)
}

// MockHistoryAPI mocks the HistoryAPI interface
type MockHistoryAPI struct {
	mock.Mock
}

func (m *MockHistoryAPI) MyHistory(ctx context.Context) (*domain.ChatHistoryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatHistoryResponse), args.Error(1)
}

func (m *MockHistoryAPI) SessionHistory(ctx context.Context, userID, sessionID string) ([]domain.ChatHistoryEntry, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatHistoryEntry), args.Error(1)
}

func (m *MockHistoryAPI) ClearMyHistory(ctx context.Context) (*domain.HistoryDeleteResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryDeleteResult), args.Error(1)
}

// MockProfileAPI mocks the ProfileAPI interface
type MockProfileAPI struct {
	mock.Mock
}

func (m *MockProfileAPI) UpdateMe(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.UserProfile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileAPI) Users(ctx context.Context) ([]domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserProfile), args.Error(1)
}

// MockSessionState mocks the SessionState interface
type MockSessionState struct {
	mock.Mock
}

func (m *MockSessionState) Snapshot() domain.Session {
	args := m.Called()
	return args.Get(0).(domain.Session)
}

func (m *MockSessionState) UpdateUser(ctx context.Context, user domain.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
