package models

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/types"
)

// Customer is a storefront principal scoped to a single store.
type Customer struct {
	ID                      uint           `gorm:"column:id;primaryKey"`
	StoreID                 uint           `gorm:"column:store_id;not null;uniqueIndex:idx_customers_store_email,priority:1"`
	Email                   string         `gorm:"column:email;not null;uniqueIndex:idx_customers_store_email,priority:2"`
	PasswordHash            string         `gorm:"column:password_hash;not null"`
	FirstName               string         `gorm:"column:firstname;not null"`
	LastName                string         `gorm:"column:lastname;not null"`
	Phone                   *string        `gorm:"column:phone"`
	ShippingAddress         *types.Address `gorm:"column:shipping_address;type:text"`
	BillingAddress          *types.Address `gorm:"column:billing_address;type:text"`
	Newsletter              bool           `gorm:"column:newsletter;not null;default:false"`
	IsVerified              bool           `gorm:"column:is_verified;not null;default:false"`
	VerificationCode        *string        `gorm:"column:verification_code"`
	VerificationCodeExpires *time.Time     `gorm:"column:verification_code_expires"`
	ResetPasswordToken      *string        `gorm:"column:reset_password_token"`
	ResetPasswordExpires    *time.Time     `gorm:"column:reset_password_expires"`
	RefreshToken            *string        `gorm:"column:refresh_token"`
	LastActiveAt            *time.Time     `gorm:"column:last_active_at"`
	CreatedAt               time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
