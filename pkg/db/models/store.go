package models

import "time"

// Store is the tenant; every catalog and commerce row hangs off store_id.
type Store struct {
	ID           uint       `gorm:"column:id;primaryKey"`
	UserID       uint       `gorm:"column:user_id;not null;uniqueIndex:idx_stores_user_id"`
	StoreName    string     `gorm:"column:store_name;not null"`
	StoreURL     string     `gorm:"column:store_url;not null;uniqueIndex:idx_stores_store_url"`
	BusinessType *string    `gorm:"column:business_type"`
	Country      string     `gorm:"column:country;not null"`
	Currency     string     `gorm:"column:currency;not null;default:'USD'"`
	Phone        *string    `gorm:"column:phone"`
	Email        *string    `gorm:"column:email"`
	Address      *string    `gorm:"column:address"`
	Description  *string    `gorm:"column:description"`
	LogoURL      *string    `gorm:"column:logo_url"`
	IsLaunched   bool       `gorm:"column:is_launched;not null;default:false"`
	LaunchedAt   *time.Time `gorm:"column:launched_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
