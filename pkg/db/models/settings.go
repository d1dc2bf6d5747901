package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingConfig struct {
	ID                    uint                `gorm:"column:id;primaryKey"`
	StoreID               uint                `gorm:"column:store_id;not null;uniqueIndex:idx_shipping_configs_store_id"`
	Enabled               bool                `gorm:"column:enabled;not null;default:false"`
	FlatRate              decimal.Decimal     `gorm:"column:flat_rate;type:numeric(12,2);not null"`
	FreeShippingThreshold decimal.NullDecimal `gorm:"column:free_shipping_threshold;type:numeric(12,2)"`
	Currency              string              `gorm:"column:currency;type:varchar(3);not null"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

type ShippingMethod struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	StoreID       uint            `gorm:"column:store_id;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	EstimatedDays *string         `gorm:"column:estimated_days"`
	IsActive      bool            `gorm:"column:is_active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// StoreSettings holds the general (non-shipping) store preferences.
type StoreSettings struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	StoreID      uint      `gorm:"column:store_id;not null;uniqueIndex:idx_store_settings_store_id"`
	Timezone     string    `gorm:"column:timezone;not null"`
	SupportEmail *string   `gorm:"column:support_email"`
	SupportPhone *string   `gorm:"column:support_phone"`
	OrderPrefix  string    `gorm:"column:order_prefix;not null"`
	WeightUnit   string    `gorm:"column:weight_unit;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSettings) TableName() string { return "store_settings" }

type Location struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	StoreID   uint      `gorm:"column:store_id;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address;not null"`
	City      *string   `gorm:"column:city"`
	Country   string    `gorm:"column:country;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
