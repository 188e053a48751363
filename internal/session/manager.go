package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrNoToken is returned by LoadUser when nothing is persisted to validate
var ErrNoToken = errors.New("no persisted token")

// AuthAPI is the subset of the backend the manager talks to. Me must
// authenticate with the manager's current Token.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.TokenResponse, error)
	Me(ctx context.Context) (*domain.UserProfile, error)
}

// Manager owns the current token and user profile. Every mutation of a
// persisted field is mirrored to the Store. The lock is never held across
// a backend call.
type Manager struct {
	api   AuthAPI
	store *Store

	mu        sync.RWMutex
	session   domain.Session
	listeners []func(token string)

	// serializes mutate+save so the store always sees the latest state last
	writeMu sync.Mutex
}

// NewManager creates a manager with an empty session
func NewManager(api AuthAPI, store *Store) *Manager {
	return &Manager{api: api, store: store}
}

// OnTokenChange registers fn to run after any mutation that replaces or
// clears the token. fn receives the new token ("" when signed out) and runs
// outside the manager's locks; it may be called from a backend request
// goroutine, so it must not block on work that request is part of.
func (m *Manager) OnTokenChange(fn func(token string)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Snapshot returns a copy of the current session
func (m *Manager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Token returns the current bearer token, or "" when signed out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// Initialize restores the persisted session and revalidates its token.
// A missing or unreadable record leaves the session empty.
func (m *Manager) Initialize(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	if errors.Is(err, ErrCorruptState) {
		log.Warn().Err(err).Msg("discarding persisted session")
		return m.reset(ctx)
	}
	if err != nil {
		return err
	}

	if rec.Token == "" {
		m.mu.Lock()
		m.session = domain.Session{}
		m.mu.Unlock()
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	m.mu.Lock()
	m.session.Token = rec.Token
	m.session.User = nil
	m.session.IsAuthenticated = false
	m.mu.Unlock()

	if err := m.LoadUser(ctx); err != nil {
		log.Info().Err(err).Msg("persisted session is no longer valid")
		return err
	}
	return nil
}

// Login exchanges credentials for a token and loads the profile. A failed
// login leaves the previous session untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (err error) {
	defer func() { authAttemptsTotal.WithLabelValues("login", outcome(err)).Inc() }()

	req := domain.LoginRequest{Username: username, Password: password}
	if err := domain.Validate(req); err != nil {
		return err
	}

	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.api.Login(ctx, req)
	if err != nil {
		return err
	}
	return m.adopt(ctx, resp.AccessToken)
}

// Signup registers an account and signs in with the returned token
func (m *Manager) Signup(ctx context.Context, email, username, password, fullName string) (err error) {
	defer func() { authAttemptsTotal.WithLabelValues("signup", outcome(err)).Inc() }()

	req := domain.SignupRequest{Email: email, Username: username, Password: password, FullName: fullName}
	if err := domain.Validate(req); err != nil {
		return err
	}

	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.api.Signup(ctx, req)
	if err != nil {
		return err
	}
	return m.adopt(ctx, resp.AccessToken)
}

// adopt persists a freshly issued token and validates it
func (m *Manager) adopt(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("backend returned an empty access token")
	}

	err := m.update(ctx, func(s *domain.Session) {
		s.Token = token
		s.User = nil
		s.IsAuthenticated = false
	})
	if err != nil {
		return err
	}
	return m.LoadUser(ctx)
}

// Logout clears the persisted record and the in-memory session. It makes no
// network call and is safe to repeat.
func (m *Manager) Logout(ctx context.Context) error {
	log.Debug().Msg("logging out")
	return m.reset(ctx)
}

// LoadUser validates the persisted token by fetching the profile. Any
// failure clears the token and every session field.
func (m *Manager) LoadUser(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	if err != nil && !errors.Is(err, ErrCorruptState) {
		return err
	}
	if rec.Token == "" {
		if err := m.reset(ctx); err != nil {
			return err
		}
		return ErrNoToken
	}

	m.mu.Lock()
	m.session.Token = rec.Token
	m.mu.Unlock()

	user, err := m.api.Me(ctx)
	if err != nil {
		if resetErr := m.reset(ctx); resetErr != nil {
			log.Error().Err(resetErr).Msg("failed to clear session after profile fetch")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	var stale bool
	err = m.update(ctx, func(s *domain.Session) {
		// a logout or another login raced the fetch
		if s.Token != rec.Token {
			stale = true
			return
		}
		s.User = user
		s.IsAuthenticated = true
	})
	if err != nil {
		return err
	}
	if stale {
		return ErrNoToken
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("session validated")
	return nil
}

// UpdateUser replaces the profile wholesale
func (m *Manager) UpdateUser(ctx context.Context, user domain.UserProfile) error {
	return m.update(ctx, func(s *domain.Session) {
		s.User = &user
	})
}

// Expire is the 401 hook. It clears the session when token is still the
// current one; a 401 for a token that has since been replaced is ignored.
// The comparison and the clear happen under the same write.
func (m *Manager) Expire(ctx context.Context, token string) {
	var replaced bool
	err := m.update(ctx, func(s *domain.Session) {
		if token != "" && s.Token != token {
			replaced = true
			return
		}
		loading := s.IsLoading
		*s = domain.Session{IsLoading: loading}
	})
	if replaced {
		log.Debug().Msg("ignoring 401 for a replaced token")
		return
	}

	forcedLogoutsTotal.Inc()
	log.Warn().Msg("backend rejected the session token, signed out")

	if err != nil {
		log.Error().Err(err).Msg("failed to clear session after 401")
	}
}

func (m *Manager) reset(ctx context.Context) error {
	return m.update(ctx, func(s *domain.Session) {
		loading := s.IsLoading
		*s = domain.Session{IsLoading: loading}
	})
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.session.IsLoading = v
	m.mu.Unlock()
}

// update applies fn and mirrors the persisted fields to the store. Token
// listeners run once the write is done.
func (m *Manager) update(ctx context.Context, fn func(*domain.Session)) error {
	m.writeMu.Lock()

	m.mu.Lock()
	before := m.session.Token
	fn(&m.session)
	rec := domain.PersistedSession{
		Token:           m.session.Token,
		User:            m.session.User,
		IsAuthenticated: m.session.IsAuthenticated,
	}
	var listeners []func(string)
	if rec.Token != before {
		listeners = append(listeners, m.listeners...)
	}
	m.mu.Unlock()

	err := m.store.Save(ctx, rec)
	m.writeMu.Unlock()

	for _, l := range listeners {
		l(rec.Token)
	}
	return err
}
