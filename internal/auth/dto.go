package auth

import (
	"encoding/json"
	"strings"
)

// SignUpDTO is the transport shape for registration requests.
type SignUpDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// SignInDTO is the transport shape for sign-in requests.
type SignInDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d SignUpDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !strings.Contains(d.Email, "@") {
		return ValidationError{Msg: "email is not valid"}
	}
	if len(d.Email) > 190 {
		return ValidationError{Msg: "email must be at most 190 characters"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	// bcrypt truncates beyond 72 bytes.
	if len(d.Password) > 72 {
		return ValidationError{Msg: "password must be at most 72 characters"}
	}
	if len(d.FullName) > 190 {
		return ValidationError{Msg: "full_name must be at most 190 characters"}
	}
	return nil
}

func (d SignInDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// UserResponse is the public projection of a user: sorted role names, the
// sorted flattened permission union and the custom claims document verbatim.
type UserResponse struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name,omitempty"`
	Roles        []string        `json:"roles"`
	Permissions  []string        `json:"permissions"`
	CustomClaims json.RawMessage `json:"custom_claims,omitempty"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Roles:        u.RoleNames(),
		Permissions:  u.PermissionNames(),
		CustomClaims: u.CustomClaims,
	}
}
