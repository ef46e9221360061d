package dto

import "time"

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100,password"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest updates the caller's own account. Password
// changes require both the current and the new password; the pairing
// rule is enforced in the service.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	CurrentPassword string  `json:"current_password" validate:"omitempty"`
	NewPassword     string  `json:"new_password" validate:"omitempty,min=8,max=100,password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionCacheEntry is the JSON value stored under session:<token>.
// Negative entries carry Valid=false and no user.
type SessionCacheEntry struct {
	Valid bool          `json:"valid"`
	User  *UserResponse `json:"user,omitempty"`
}
