package domain

// UserProfile is the backend's view of an account. It is replaced wholesale
// on every successful fetch or update.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	IsActive  bool   `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// DisplayName returns the full name when set, otherwise the username.
func (u UserProfile) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents registration data
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

// TokenResponse is returned by the login and signup endpoints
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileUpdateRequest is the wire body of a profile edit. Nil fields are
// left unchanged by the backend.
type ProfileUpdateRequest struct {
	Email           *string `json:"email,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

// Empty reports whether the request would change nothing.
func (r ProfileUpdateRequest) Empty() bool {
	return r.Email == nil && r.FullName == nil && r.CurrentPassword == nil && r.NewPassword == nil
}
