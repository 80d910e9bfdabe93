package model

import "time"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest intentionally carries no password field. Password
// changes only happen through the reset flow, so anything a client sends under
// "password" is dropped at the JSON boundary.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateProfileResponse struct {
	Message string       `json:"message"`
	User    *UserProfile `json:"user"`
}

// UserProfile is the only user shape handed back to clients. It never includes
// the password hash or the reset-token columns.
type UserProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthUser is the identity bound to a request after the bearer token is
// verified.
type AuthUser struct {
	ID    int64
	Email string
}

type User struct {
	ID                     int64
	Name                   string
	Email                  string
	PasswordHash           string
	PasswordResetTokenHash *string
	PasswordResetExpires   *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
