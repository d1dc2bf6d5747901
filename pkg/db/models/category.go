package models

import "time"

type Category struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	StoreID     uint      `gorm:"column:store_id;not null;index:idx_categories_store_id"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Image       *string   `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Brand struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	StoreID     uint      `gorm:"column:store_id;not null;index:idx_brands_store_id"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	LogoURL     *string   `gorm:"column:logo_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
