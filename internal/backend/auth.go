package backend

import (
	"context"
	"net/http"

	"github.com/Rrens/campus-console/internal/domain"
)

// Login submits credentials and returns the bearer token
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	var out domain.TokenResponse
	err := c.do(ctx, request{method: http.MethodPost, route: "/auth/login", path: "/auth/login", body: req, anonymous: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers an account and returns its bearer token
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.TokenResponse, error) {
	var out domain.TokenResponse
	err := c.do(ctx, request{method: http.MethodPost, route: "/auth/signup", path: "/auth/signup", body: req, anonymous: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile of the bound session
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, route: "/auth/me", path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe edits the current profile and returns the new snapshot
func (c *Client) UpdateMe(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, request{method: http.MethodPut, route: "/auth/me", path: "/auth/me", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, route: "/auth/users", path: "/auth/users"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
