package auth

import (
	"github.com/angelmondragon/shopdesk-backend/internal/stores"
	"github.com/angelmondragon/shopdesk-backend/internal/users"
)

// RegisterRequest is the back-office sign-up payload.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required"`
	FirstName string  `json:"firstname" validate:"required,max=100"`
	LastName  string  `json:"lastname" validate:"required,max=100"`
	Password  string  `json:"password" validate:"required"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse carries a fresh token pair, the user and their store, if any.
type AuthResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         *users.UserDTO  `json:"user"`
	Store        *stores.Summary `json:"store"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
