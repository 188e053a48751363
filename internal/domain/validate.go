package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks v against its struct tags and returns ValidationErrors
// when any rule fails.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	out := make(ValidationErrors, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "field is required"
		case "email":
			out[field] = "invalid email format"
		case "min":
			out[field] = "must be at least " + e.Param() + " characters"
		case "max":
			out[field] = "must be at most " + e.Param() + " characters"
		default:
			out[field] = "validation failed on " + e.Tag()
		}
	}
	return out
}

// ProfileForm is the editable view of a profile. Only fields that differ
// from the current profile are sent.
type ProfileForm struct {
	Email           string `json:"email" validate:"required,email"`
	FullName        string `json:"full_name" validate:"max=255"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password"`
}

// Request validates the form and builds the update body against current.
func (f ProfileForm) Request(current UserProfile) (ProfileUpdateRequest, error) {
	if err := Validate(f); err != nil {
		return ProfileUpdateRequest{}, err
	}

	var req ProfileUpdateRequest
	if f.Email != current.Email {
		email := f.Email
		req.Email = &email
	}
	if f.FullName != current.FullName {
		name := f.FullName
		req.FullName = &name
	}

	if f.NewPassword != "" {
		if f.NewPassword != f.ConfirmPassword {
			return ProfileUpdateRequest{}, ValidationErrors{"ConfirmPassword": "new passwords do not match"}
		}
		if f.CurrentPassword == "" {
			return ProfileUpdateRequest{}, ValidationErrors{"CurrentPassword": "current password is required to change password"}
		}
		current, next := f.CurrentPassword, f.NewPassword
		req.CurrentPassword = &current
		req.NewPassword = &next
	}

	return req, nil
}
