package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstname"`
	LastName        string     `json:"lastname"`
	FullName        string     `json:"fullName"`
	Phone           *string    `json:"phone"`
	Username        *string    `json:"username"`
	ProfilePhotoURL *string    `json:"profilePhotoUrl"`
	IsVerified      bool       `json:"isVerified"`
	LastActiveAt    *time.Time `json:"lastActiveAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email                   string
	PasswordHash            string
	FirstName               string
	LastName                string
	Phone                   *string
	VerificationCode        string
	VerificationCodeExpires time.Time
}

// UpdateProfileRequest is a sparse profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstname" validate:"omitempty,max=100"`
	LastName  *string `json:"lastname" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Username  *string `json:"username" validate:"omitempty,max=64"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName,
		Phone:           u.Phone,
		Username:        u.Username,
		ProfilePhotoURL: u.ProfilePhotoURL,
		IsVerified:      u.IsVerified,
		LastActiveAt:    u.LastActiveAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	code := c.VerificationCode
	expires := c.VerificationCodeExpires
	return &models.User{
		Email:                   c.Email,
		PasswordHash:            c.PasswordHash,
		FirstName:               c.FirstName,
		LastName:                c.LastName,
		FullName:                FullName(c.FirstName, c.LastName),
		Phone:                   c.Phone,
		VerificationCode:        &code,
		VerificationCodeExpires: &expires,
	}
}

// FullName joins first and last names, skipping blanks.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
