package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

// ProductDTO represents the product payload returned to store owners.
type ProductDTO struct {
	ID                  uint                `json:"id"`
	StoreID             uint                `json:"storeId"`
	BrandID             *uint               `json:"brandId"`
	Name                string              `json:"name"`
	Description         *string             `json:"description"`
	SKU                 *string             `json:"sku"`
	Images              []string            `json:"images"`
	Type                enums.ProductType   `json:"type"`
	StockQuantity       int                 `json:"stockQuantity"`
	LowStockThreshold   int                 `json:"lowStockThreshold"`
	TrackStock          bool                `json:"trackStock"`
	LowStock            bool                `json:"lowStock"`
	HideFromHomepage    bool                `json:"hideFromHomepage"`
	Pricings            []PricingDTO        `json:"pricings"`
	DescriptionDetails  []DescriptionDetail `json:"descriptionDetails"`
	Options             []OptionDTO         `json:"options"`
	Categories          []CategoryRef       `json:"categories"`
	UpsellProductIDs    []uint              `json:"upsellProducts"`
	CrossSellProductIDs []uint              `json:"crossSellProducts"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type PricingDTO struct {
	CurrencyCode  string           `json:"currencyCode"`
	SellingPrice  decimal.Decimal  `json:"sellingPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
}

type DescriptionDetail struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

type OptionDTO struct {
	OptionType string   `json:"optionType" validate:"required"`
	Values     []string `json:"values"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PricingInput struct {
	CurrencyCode  string           `json:"currencyCode" validate:"required,len=3"`
	SellingPrice  decimal.Decimal  `json:"sellingPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
}

// CreateProductRequest holds the product row together with every child collection.
type CreateProductRequest struct {
	Name               string              `json:"name" validate:"required,max=200"`
	Description        *string             `json:"description"`
	SKU                *string             `json:"sku" validate:"omitempty,max=64"`
	Images             []string            `json:"images" validate:"dive,url"`
	Type               enums.ProductType   `json:"type"`
	BrandID            *uint               `json:"brandId"`
	StockQuantity      int                 `json:"stockQuantity" validate:"gte=0"`
	LowStockThreshold  int                 `json:"lowStockThreshold" validate:"gte=0"`
	TrackStock         bool                `json:"trackStock"`
	HideFromHomepage   bool                `json:"hideFromHomepage"`
	Pricings           []PricingInput      `json:"pricings" validate:"dive"`
	DescriptionDetails []DescriptionDetail `json:"descriptionDetails" validate:"dive"`
	Options            []OptionDTO         `json:"options" validate:"dive"`
	Categories         []uint              `json:"categories"`
	UpsellProducts     []uint              `json:"upsellProducts"`
	CrossSellProducts  []uint              `json:"crossSellProducts"`
}

// UpdateProductRequest is sparse. A nil relation is left untouched; a
// present relation, even an empty one, replaces the stored set.
type UpdateProductRequest struct {
	Name               *string              `json:"name" validate:"omitempty,max=200"`
	Description        *string              `json:"description"`
	SKU                *string              `json:"sku" validate:"omitempty,max=64"`
	Images             *[]string            `json:"images"`
	Type               *enums.ProductType   `json:"type"`
	BrandID            *uint                `json:"brandId"`
	StockQuantity      *int                 `json:"stockQuantity" validate:"omitempty,gte=0"`
	LowStockThreshold  *int                 `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	TrackStock         *bool                `json:"trackStock"`
	HideFromHomepage   *bool                `json:"hideFromHomepage"`
	Pricings           *[]PricingInput      `json:"pricings"`
	DescriptionDetails *[]DescriptionDetail `json:"descriptionDetails"`
	Options            *[]OptionDTO         `json:"options"`
	Categories         *[]uint              `json:"categories"`
	UpsellProducts     *[]uint              `json:"upsellProducts"`
	CrossSellProducts  *[]uint              `json:"crossSellProducts"`
}

// StockRequest sets the on-hand quantity and optionally the alert threshold.
type StockRequest struct {
	Quantity          *int `json:"quantity" validate:"required,gte=0"`
	LowStockThreshold *int `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

// NewProductDTO builds a DTO from a product loaded with its children.
func NewProductDTO(p *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:                  p.ID,
		StoreID:             p.StoreID,
		BrandID:             p.BrandID,
		Name:                p.Name,
		Description:         p.Description,
		SKU:                 p.SKU,
		Images:              append([]string{}, p.Images...),
		Type:                p.Type,
		StockQuantity:       p.StockQuantity,
		LowStockThreshold:   p.LowStockThreshold,
		TrackStock:          p.TrackStock,
		LowStock:            p.TrackStock && p.StockQuantity <= p.LowStockThreshold,
		HideFromHomepage:    p.HideFromHomepage,
		Pricings:            make([]PricingDTO, 0, len(p.Pricings)),
		DescriptionDetails:  make([]DescriptionDetail, 0, len(p.DescriptionDetails)),
		Options:             make([]OptionDTO, 0, len(p.Options)),
		Categories:          make([]CategoryRef, 0, len(p.CategoryLinks)),
		UpsellProductIDs:    make([]uint, 0, len(p.UpsellLinks)),
		CrossSellProductIDs: make([]uint, 0, len(p.CrossSellLinks)),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	for _, pr := range p.Pricings {
		item := PricingDTO{CurrencyCode: pr.CurrencyCode, SellingPrice: pr.SellingPrice}
		if pr.OriginalPrice.Valid {
			v := pr.OriginalPrice.Decimal
			item.OriginalPrice = &v
		}
		dto.Pricings = append(dto.Pricings, item)
	}
	for _, d := range p.DescriptionDetails {
		dto.DescriptionDetails = append(dto.DescriptionDetails, DescriptionDetail{Title: d.Title, Body: d.Body})
	}
	for _, o := range p.Options {
		dto.Options = append(dto.Options, OptionDTO{OptionType: o.OptionType, Values: append([]string{}, o.Values...)})
	}
	for _, link := range p.CategoryLinks {
		dto.Categories = append(dto.Categories, CategoryRef{ID: link.CategoryID, Name: link.Category.Name})
	}
	for _, link := range p.UpsellLinks {
		dto.UpsellProductIDs = append(dto.UpsellProductIDs, link.UpsellProductID)
	}
	for _, link := range p.CrossSellLinks {
		dto.CrossSellProductIDs = append(dto.CrossSellProductIDs, link.CrossSellProductID)
	}
	return dto
}
