package variants

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type VariantDTO struct {
	ID            uint            `json:"id"`
	StoreID       uint            `json:"storeId"`
	ProductID     uint            `json:"productId"`
	ProductName   string          `json:"productName,omitempty"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      *string         `json:"imageUrl"`
	Options       []OptionInput   `json:"options"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OptionInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type CreateVariantRequest struct {
	ProductID     uint            `json:"productId" validate:"required"`
	Name          string          `json:"name" validate:"required,max=200"`
	SKU           *string         `json:"sku" validate:"omitempty,max=64"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	ImageURL      *string         `json:"imageUrl" validate:"omitempty,url"`
	Options       []OptionInput   `json:"options" validate:"dive"`
}

// UpdateVariantRequest is sparse; a present options list replaces the stored one.
type UpdateVariantRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	SKU           *string          `json:"sku" validate:"omitempty,max=64"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity" validate:"omitempty,gte=0"`
	ImageURL      *string          `json:"imageUrl"`
	Options       *[]OptionInput   `json:"options"`
}

type ListQuery struct {
	pagination.Params
	Search    string
	ProductID *uint
}

func FromModel(m *models.ProductVariant) *VariantDTO {
	dto := &VariantDTO{
		ID:            m.ID,
		StoreID:       m.StoreID,
		ProductID:     m.ProductID,
		Name:          m.Name,
		SKU:           m.SKU,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		ImageURL:      m.ImageURL,
		Options:       make([]OptionInput, 0, len(m.Options)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Product != nil {
		dto.ProductName = m.Product.Name
	}
	for _, o := range m.Options {
		dto.Options = append(dto.Options, OptionInput{Name: o.Name, Value: o.Value})
	}
	return dto
}
