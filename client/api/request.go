package api

import (
	"net/mail"
	"strings"

	"github.com/viant/storefront/client/state"
)

const minPasswordLength = 6

// SignInRequest represents sign-in form input.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	return nil
}

// SignUpRequest represents sign-up form input.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignUpRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword("password", r.Password)
}

// ChangePasswordRequest represents the change password form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return &ValidationError{Field: "currentPassword", Message: "is required"}
	}
	if err := validatePassword("newPassword", r.NewPassword); err != nil {
		return err
	}
	if r.NewPassword == r.CurrentPassword {
		return &ValidationError{Field: "newPassword", Message: "must differ from the current password"}
	}
	return nil
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

func validateProfilePatch(patch *state.ProfilePatch) error {
	if patch == nil || patch.IsEmpty() {
		return &ValidationError{Field: "profile", Message: "nothing to update"}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be blank"}
	}
	if patch.Phone != nil {
		for _, r := range strings.TrimPrefix(*patch.Phone, "+") {
			if r < '0' || r > '9' {
				return &ValidationError{Field: "phone", Message: "must contain digits only"}
			}
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "is malformed"}
	}
	return nil
}

func validatePassword(field, password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{Field: field, Message: "must have at least 6 characters"}
	}
	return nil
}
