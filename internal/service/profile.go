package service

import (
	"context"
	"errors"

	"github.com/Rrens/campus-console/internal/domain"
)

// ErrNotSignedIn is returned by operations that need a validated session
var ErrNotSignedIn = errors.New("not signed in")

// ProfileAPI is the backend surface for accounts
type ProfileAPI interface {
	UpdateMe(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.UserProfile, error)
	Users(ctx context.Context) ([]domain.UserProfile, error)
}

// SessionState is the part of the session manager profile edits touch
type SessionState interface {
	Snapshot() domain.Session
	UpdateUser(ctx context.Context, user domain.UserProfile) error
}

// ProfileService handles profile edits and the account list
type ProfileService struct {
	api      ProfileAPI
	sessions SessionState
}

// NewProfileService creates a new profile service
func NewProfileService(api ProfileAPI, sessions SessionState) *ProfileService {
	return &ProfileService{api: api, sessions: sessions}
}

// Update sends the fields of form that differ from the current profile and
// stores the returned profile in the session. An unchanged form is a no-op.
func (s *ProfileService) Update(ctx context.Context, form domain.ProfileForm) (*domain.UserProfile, error) {
	snap := s.sessions.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		return nil, ErrNotSignedIn
	}

	req, err := form.Request(*snap.User)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		return snap.User, nil
	}

	user, err := s.api.UpdateMe(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Users lists every account
func (s *ProfileService) Users(ctx context.Context) ([]domain.UserProfile, error) {
	return s.api.Users(ctx)
}
