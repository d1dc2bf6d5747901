package stores

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

// StoreDTO is the owner-facing store payload.
type StoreDTO struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"userId"`
	StoreName    string     `json:"storeName"`
	StoreURL     string     `json:"storeUrl"`
	BusinessType *string    `json:"businessType"`
	Country      string     `json:"country"`
	Currency     string     `json:"currency"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	Address      *string    `json:"address"`
	Description  *string    `json:"description"`
	LogoURL      *string    `json:"logoUrl"`
	IsLaunched   bool       `json:"isLaunched"`
	LaunchedAt   *time.Time `json:"launchedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Summary is the compact store view returned with a login.
type Summary struct {
	ID         uint   `json:"id"`
	StoreName  string `json:"storeName"`
	StoreURL   string `json:"storeUrl"`
	IsLaunched bool   `json:"isLaunched"`
}

// SetupStoreRequest is decoded from the multipart setup form.
type SetupStoreRequest struct {
	StoreName    string  `json:"storeName" validate:"required,max=120"`
	StoreURL     string  `json:"storeUrl" validate:"required"`
	BusinessType *string `json:"businessType"`
	Country      string  `json:"country" validate:"required"`
	Currency     string  `json:"currency" validate:"omitempty,len=3,alpha"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Address      *string `json:"address"`
	Description  *string `json:"description"`
}

// UpdateStoreRequest carries optional fields; nil leaves the column untouched.
type UpdateStoreRequest struct {
	StoreName    *string `json:"storeName"`
	StoreURL     *string `json:"storeUrl"`
	BusinessType *string `json:"businessType"`
	Country      *string `json:"country"`
	Currency     *string `json:"currency"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Address      *string `json:"address"`
	Description  *string `json:"description"`
}

// StorefrontDTO is the public read model of a launched store.
type StorefrontDTO struct {
	Store           PublicStoreDTO               `json:"store"`
	Products        []ProductSummary             `json:"products"`
	Categories      []CategorySummary            `json:"categories"`
	Brands          []BrandSummary               `json:"brands"`
	Shipping        *settings.ShippingDTO        `json:"shipping"`
	ShippingMethods []settings.ShippingMethodDTO `json:"shippingMethods"`
	Settings        *settings.GeneralDTO         `json:"settings"`
	Location        *settings.LocationDTO        `json:"location"`
}

type PublicStoreDTO struct {
	ID           uint       `json:"id"`
	StoreName    string     `json:"storeName"`
	StoreURL     string     `json:"storeUrl"`
	BusinessType *string    `json:"businessType"`
	Country      string     `json:"country"`
	Currency     string     `json:"currency"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	Address      *string    `json:"address"`
	Description  *string    `json:"description"`
	LogoURL      *string    `json:"logoUrl"`
	LaunchedAt   *time.Time `json:"launchedAt"`
}

type PricingSummary struct {
	CurrencyCode  string           `json:"currencyCode"`
	SellingPrice  decimal.Decimal  `json:"sellingPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
}

type ProductSummary struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Images        []string          `json:"images"`
	Type          enums.ProductType `json:"type"`
	StockQuantity int               `json:"stockQuantity"`
	BrandID       *uint             `json:"brandId"`
	Pricings      []PricingSummary  `json:"pricings"`
}

type CategorySummary struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Products    []ProductSummary `json:"products"`
}

type BrandSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logoUrl"`
}

// FromModel maps a store row to its owner view.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:           m.ID,
		UserID:       m.UserID,
		StoreName:    m.StoreName,
		StoreURL:     m.StoreURL,
		BusinessType: m.BusinessType,
		Country:      m.Country,
		Currency:     m.Currency,
		Phone:        m.Phone,
		Email:        m.Email,
		Address:      m.Address,
		Description:  m.Description,
		LogoURL:      m.LogoURL,
		IsLaunched:   m.IsLaunched,
		LaunchedAt:   m.LaunchedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SummaryFromModel returns nil for a nil store.
func SummaryFromModel(m *models.Store) *Summary {
	if m == nil {
		return nil
	}
	return &Summary{ID: m.ID, StoreName: m.StoreName, StoreURL: m.StoreURL, IsLaunched: m.IsLaunched}
}

func publicFromModel(m *models.Store) PublicStoreDTO {
	return PublicStoreDTO{
		ID:           m.ID,
		StoreName:    m.StoreName,
		StoreURL:     m.StoreURL,
		BusinessType: m.BusinessType,
		Country:      m.Country,
		Currency:     m.Currency,
		Phone:        m.Phone,
		Email:        m.Email,
		Address:      m.Address,
		Description:  m.Description,
		LogoURL:      m.LogoURL,
		LaunchedAt:   m.LaunchedAt,
	}
}

func productSummary(p models.Product) ProductSummary {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	pricings := make([]PricingSummary, 0, len(p.Pricings))
	for _, pr := range p.Pricings {
		ps := PricingSummary{CurrencyCode: pr.CurrencyCode, SellingPrice: pr.SellingPrice}
		if pr.OriginalPrice.Valid {
			v := pr.OriginalPrice.Decimal
			ps.OriginalPrice = &v
		}
		pricings = append(pricings, ps)
	}
	return ProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Images:        images,
		Type:          p.Type,
		StockQuantity: p.StockQuantity,
		BrandID:       p.BrandID,
		Pricings:      pricings,
	}
}

func brandSummary(b models.Brand) BrandSummary {
	return BrandSummary{ID: b.ID, Name: b.Name, Description: b.Description, LogoURL: b.LogoURL}
}
