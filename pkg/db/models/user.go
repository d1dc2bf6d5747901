package models

import "time"

// User is a back-office principal who owns at most one store.
type User struct {
	ID                      uint       `gorm:"column:id;primaryKey"`
	Email                   string     `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	PasswordHash            string     `gorm:"column:password_hash;not null"`
	FirstName               string     `gorm:"column:firstname;not null"`
	LastName                string     `gorm:"column:lastname;not null"`
	FullName                string     `gorm:"column:full_name;not null;default:''"`
	Phone                   *string    `gorm:"column:phone"`
	Username                *string    `gorm:"column:username"`
	ProfilePhotoURL         *string    `gorm:"column:profile_photo_url"`
	IsVerified              bool       `gorm:"column:is_verified;not null;default:false"`
	VerificationCode        *string    `gorm:"column:verification_code"`
	VerificationCodeExpires *time.Time `gorm:"column:verification_code_expires"`
	ResetPasswordToken      *string    `gorm:"column:reset_password_token"`
	ResetPasswordExpires    *time.Time `gorm:"column:reset_password_expires"`
	RefreshToken            *string    `gorm:"column:refresh_token"`
	LastActiveAt            *time.Time `gorm:"column:last_active_at"`
	CreatedAt               time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
