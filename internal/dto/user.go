package dto

import "time"

type AddTrustedUserRequest struct {
	TrustedUserEmail string `json:"trusted_user_email" validate:"required,email"`
}

type TrustedUserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	TrustedAt time.Time `json:"trusted_at"`
}

type ProfileResponse struct {
	User         UserResponse          `json:"user"`
	TrustedUsers []TrustedUserResponse `json:"trusted_users"`
}
