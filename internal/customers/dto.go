package customers

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
	"github.com/angelmondragon/shopdesk-backend/pkg/types"
)

// CustomerDTO is the public view of a storefront customer.
type CustomerDTO struct {
	ID              uint           `json:"id"`
	StoreID         uint           `json:"storeId"`
	Email           string         `json:"email"`
	FirstName       string         `json:"firstname"`
	LastName        string         `json:"lastname"`
	Phone           *string        `json:"phone"`
	ShippingAddress *types.Address `json:"shippingAddress"`
	BillingAddress  *types.Address `json:"billingAddress"`
	Newsletter      bool           `json:"newsletter"`
	IsVerified      bool           `json:"isVerified"`
	LastActiveAt    *time.Time     `json:"lastActiveAt"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type RegisterRequest struct {
	Email           string         `json:"email" validate:"required"`
	FirstName       string         `json:"firstname" validate:"required,max=100"`
	LastName        string         `json:"lastname" validate:"required,max=100"`
	Password        string         `json:"password" validate:"required"`
	Phone           *string        `json:"phone" validate:"omitempty,max=32"`
	Newsletter      bool           `json:"newsletter"`
	ShippingAddress *types.Address `json:"shippingAddress"`
	BillingAddress  *types.Address `json:"billingAddress"`
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

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Customer     *CustomerDTO `json:"customer"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateCustomerRequest is sparse; nil leaves the field untouched.
type UpdateCustomerRequest struct {
	FirstName       *string        `json:"firstname" validate:"omitempty,max=100"`
	LastName        *string        `json:"lastname" validate:"omitempty,max=100"`
	Phone           *string        `json:"phone" validate:"omitempty,max=32"`
	Newsletter      *bool          `json:"newsletter"`
	ShippingAddress *types.Address `json:"shippingAddress"`
	BillingAddress  *types.Address `json:"billingAddress"`
}

type ListQuery struct {
	pagination.Params
	Search string
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:              c.ID,
		StoreID:         c.StoreID,
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Phone:           c.Phone,
		ShippingAddress: c.ShippingAddress,
		BillingAddress:  c.BillingAddress,
		Newsletter:      c.Newsletter,
		IsVerified:      c.IsVerified,
		LastActiveAt:    c.LastActiveAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
