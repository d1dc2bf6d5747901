package settings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
)

type ShippingDTO struct {
	Enabled               bool             `json:"enabled"`
	FlatRate              decimal.Decimal  `json:"flatRate"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold"`
	Currency              string           `json:"currency"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

type ShippingRequest struct {
	Enabled               bool             `json:"enabled"`
	FlatRate              decimal.Decimal  `json:"flatRate"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold"`
	Currency              string           `json:"currency" validate:"omitempty,len=3,alpha"`
}

type ShippingMethodDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays *string         `json:"estimatedDays"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type ShippingMethodRequest struct {
	Name          string          `json:"name" validate:"required,max=120"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays *string         `json:"estimatedDays" validate:"omitempty,max=60"`
	IsActive      *bool           `json:"isActive"`
}

// GeneralDTO is the general store preferences block.
type GeneralDTO struct {
	Timezone     string    `json:"timezone"`
	SupportEmail *string   `json:"supportEmail"`
	SupportPhone *string   `json:"supportPhone"`
	OrderPrefix  string    `json:"orderPrefix"`
	WeightUnit   string    `json:"weightUnit"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type GeneralRequest struct {
	Timezone     *string `json:"timezone" validate:"omitempty,max=64"`
	SupportEmail *string `json:"supportEmail" validate:"omitempty,email"`
	SupportPhone *string `json:"supportPhone" validate:"omitempty,max=32"`
	OrderPrefix  *string `json:"orderPrefix" validate:"omitempty,max=8"`
	WeightUnit   *string `json:"weightUnit" validate:"omitempty,oneof=kg g lb oz"`
}

type LocationDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      *string   `json:"city"`
	Country   string    `json:"country"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

type LocationRequest struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Address   string  `json:"address" validate:"required"`
	City      *string `json:"city"`
	Country   string  `json:"country" validate:"required"`
	IsPrimary bool    `json:"isPrimary"`
}

func shippingFromModel(m *models.ShippingConfig) *ShippingDTO {
	if m == nil {
		return nil
	}
	dto := &ShippingDTO{
		Enabled:   m.Enabled,
		FlatRate:  m.FlatRate,
		Currency:  m.Currency,
		UpdatedAt: m.UpdatedAt,
	}
	if m.FreeShippingThreshold.Valid {
		v := m.FreeShippingThreshold.Decimal
		dto.FreeShippingThreshold = &v
	}
	return dto
}

func methodFromModel(m models.ShippingMethod) ShippingMethodDTO {
	return ShippingMethodDTO{
		ID:            m.ID,
		Name:          m.Name,
		Price:         m.Price,
		EstimatedDays: m.EstimatedDays,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

func generalFromModel(m *models.StoreSettings) *GeneralDTO {
	if m == nil {
		return nil
	}
	return &GeneralDTO{
		Timezone:     m.Timezone,
		SupportEmail: m.SupportEmail,
		SupportPhone: m.SupportPhone,
		OrderPrefix:  m.OrderPrefix,
		WeightUnit:   m.WeightUnit,
		UpdatedAt:    m.UpdatedAt,
	}
}

func locationFromModel(m models.Location) LocationDTO {
	return LocationDTO{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		Country:   m.Country,
		IsPrimary: m.IsPrimary,
		CreatedAt: m.CreatedAt,
	}
}
