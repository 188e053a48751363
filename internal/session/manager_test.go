package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/repository/memory"
	"github.com/Rrens/campus-console/internal/security"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthAPI is a mock for session.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenResponse), args.Error(1)
}

func (m *MockAuthAPI) Signup(ctx context.Context, req domain.SignupRequest) (*domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenResponse), args.Error(1)
}

func (m *MockAuthAPI) Me(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

var admin = &domain.UserProfile{ID: "u-1", Email: "admin@campus.edu", Username: "admin", IsActive: true, IsAdmin: true}

func newManager(t *testing.T) (*session.Manager, *MockAuthAPI, *session.Store) {
	t.Helper()
	api := new(MockAuthAPI)
	store := session.NewStore(memory.NewStateRepository(), "auth-storage", nil)
	return session.NewManager(api, store), api, store
}

func TestManager_LoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, domain.LoginRequest{Username: "admin", Password: "secret123"}).
		Return(&domain.TokenResponse{AccessToken: "T", TokenType: "bearer"}, nil)
	api.On("Me", mock.Anything).Run(func(mock.Arguments) {
		assert.Equal(t, "T", mgr.Token())
	}).Return(admin, nil)

	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

	s := mgr.Snapshot()
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, "T", s.Token)
	require.NotNil(t, s.User)
	assert.Equal(t, "admin", s.User.Username)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T", rec.Token)
	assert.True(t, rec.IsAuthenticated)
	api.AssertExpectations(t)
}

func TestManager_LoginFailureLeavesSession(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("Incorrect username or password"))

	err := mgr.Login(ctx, "admin", "wrongpass")
	assert.EqualError(t, err, "Incorrect username or password")

	s := mgr.Snapshot()
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Token)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())
	api.AssertNotCalled(t, "Me", mock.Anything)
}

func TestManager_LoginValidation(t *testing.T) {
	mgr, api, _ := newManager(t)

	err := mgr.Login(context.Background(), "", "")

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestManager_Signup(t *testing.T) {
	ctx := context.Background()
	mgr, api, _ := newManager(t)

	req := domain.SignupRequest{Email: "new@campus.edu", Username: "newbie", Password: "password1", FullName: "New Bie"}
	api.On("Signup", mock.Anything, req).Return(&domain.TokenResponse{AccessToken: "S"}, nil)
	api.On("Me", mock.Anything).Return(&domain.UserProfile{ID: "u-2", Username: "newbie"}, nil)

	require.NoError(t, mgr.Signup(ctx, req.Email, req.Username, req.Password, req.FullName))
	assert.True(t, mgr.Snapshot().IsAuthenticated)
	assert.Equal(t, "S", mgr.Token())
}

func TestManager_LoadUserFailureClearsEverything(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T"}, nil)
	api.On("Me", mock.Anything).Return(admin, nil).Once()
	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))
	require.True(t, mgr.Snapshot().IsAuthenticated)

	api.On("Me", mock.Anything).Return(nil, errors.New("boom")).Once()

	err := mgr.LoadUser(ctx)
	assert.ErrorContains(t, err, "boom")

	s := mgr.Snapshot()
	assert.False(t, s.IsAuthenticated)
	assert.Empty(t, s.Token)
	assert.Nil(t, s.User)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.Token)
}

func TestManager_LoadUserWithoutToken(t *testing.T) {
	mgr, api, _ := newManager(t)

	err := mgr.LoadUser(context.Background())
	assert.ErrorIs(t, err, session.ErrNoToken)
	assert.False(t, mgr.Snapshot().IsAuthenticated)
	api.AssertNotCalled(t, "Me", mock.Anything)
}

func TestManager_LogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T"}, nil)
	api.On("Me", mock.Anything).Return(admin, nil)
	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

	require.NoError(t, mgr.Logout(ctx))
	once := mgr.Snapshot()
	require.NoError(t, mgr.Logout(ctx))
	twice := mgr.Snapshot()

	assert.Equal(t, domain.Session{}, once)
	assert.Equal(t, once, twice)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}

func TestManager_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing persisted", func(t *testing.T) {
		mgr, api, _ := newManager(t)
		require.NoError(t, mgr.Initialize(ctx))
		assert.Equal(t, domain.Session{}, mgr.Snapshot())
		api.AssertNotCalled(t, "Me", mock.Anything)
	})

	t.Run("valid token restored", func(t *testing.T) {
		mgr, api, store := newManager(t)
		require.NoError(t, store.Save(ctx, domain.PersistedSession{Token: "T", User: admin, IsAuthenticated: true}))
		api.On("Me", mock.Anything).Return(admin, nil)

		require.NoError(t, mgr.Initialize(ctx))
		s := mgr.Snapshot()
		assert.True(t, s.IsAuthenticated)
		assert.False(t, s.IsLoading)
		assert.Equal(t, "T", s.Token)
	})

	t.Run("expired token cleared", func(t *testing.T) {
		mgr, api, store := newManager(t)
		require.NoError(t, store.Save(ctx, domain.PersistedSession{Token: "old"}))
		api.On("Me", mock.Anything).Return(nil, errors.New("Could not validate credentials"))

		assert.Error(t, mgr.Initialize(ctx))
		s := mgr.Snapshot()
		assert.False(t, s.IsAuthenticated)
		assert.False(t, s.IsLoading)
		assert.Empty(t, s.Token)

		rec, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, rec.Token)
	})

	t.Run("unreadable record discarded", func(t *testing.T) {
		repo := memory.NewStateRepository()
		require.NoError(t, repo.Put(ctx, "auth-storage", []byte("{not json")))
		mgr := session.NewManager(new(MockAuthAPI), session.NewStore(repo, "auth-storage", nil))

		require.NoError(t, mgr.Initialize(ctx))
		_, err := repo.Get(ctx, "auth-storage")
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})
}

func TestManager_Expire(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T"}, nil)
	api.On("Me", mock.Anything).Return(admin, nil)
	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

	mgr.Expire(ctx, "some-older-token")
	assert.True(t, mgr.Snapshot().IsAuthenticated)

	mgr.Expire(ctx, "T")
	assert.False(t, mgr.Snapshot().IsAuthenticated)
	assert.Empty(t, mgr.Token())

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}

func TestManager_UpdateUser(t *testing.T) {
	ctx := context.Background()
	mgr, api, store := newManager(t)

	api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T"}, nil)
	api.On("Me", mock.Anything).Return(admin, nil)
	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

	updated := *admin
	updated.FullName = "Ada Admin"
	require.NoError(t, mgr.UpdateUser(ctx, updated))

	assert.Equal(t, "Ada Admin", mgr.Snapshot().User.FullName)
	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada Admin", rec.User.FullName)
}

func TestStore_Sealed(t *testing.T) {
	ctx := context.Background()
	sealer, err := security.NewSealer("passphrase")
	require.NoError(t, err)

	repo := memory.NewStateRepository()
	store := session.NewStore(repo, "auth-storage", sealer)
	require.NoError(t, store.Save(ctx, domain.PersistedSession{Token: "T", IsAuthenticated: true}))

	raw, err := repo.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "token")

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T", rec.Token)

	other, err := security.NewSealer("another")
	require.NoError(t, err)
	_, err = session.NewStore(repo, "auth-storage", other).Load(ctx)
	assert.ErrorIs(t, err, session.ErrCorruptState)
}

func TestManager_ExpireRacingLogin(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		mgr, api, _ := newManager(t)

		api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T1"}, nil).Once()
		api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T2"}, nil)
		api.On("Me", mock.Anything).Return(admin, nil)
		require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

		// a late 401 for T1 lands while T2 is being adopted
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			mgr.Expire(ctx, "T1")
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Login(ctx, "admin", "secret123"))
		}()
		wg.Wait()

		s := mgr.Snapshot()
		require.True(t, s.IsAuthenticated, "iteration %d", i)
		require.Equal(t, "T2", s.Token, "iteration %d", i)
	}
}

func TestManager_OnTokenChange(t *testing.T) {
	ctx := context.Background()
	mgr, api, _ := newManager(t)

	var seen []string
	mgr.OnTokenChange(func(token string) { seen = append(seen, token) })

	api.On("Login", mock.Anything, mock.Anything).Return(&domain.TokenResponse{AccessToken: "T"}, nil)
	api.On("Me", mock.Anything).Return(admin, nil)
	require.NoError(t, mgr.Login(ctx, "admin", "secret123"))

	updated := *admin
	updated.FullName = "Ada Admin"
	require.NoError(t, mgr.UpdateUser(ctx, updated))

	mgr.Expire(ctx, "older")
	require.NoError(t, mgr.Logout(ctx))
	require.NoError(t, mgr.Logout(ctx))

	assert.Equal(t, []string{"T", ""}, seen)
}

func TestStore_RecordFieldNames(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStateRepository()
	store := session.NewStore(repo, "auth-storage", nil)

	require.NoError(t, store.Save(ctx, domain.PersistedSession{Token: "T", User: admin, IsAuthenticated: true}))

	raw, err := repo.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"is_authenticated":true`)
	assert.NotContains(t, string(raw), "isAuthenticated")
	assert.NotContains(t, string(raw), "is_loading")
}
