package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/shopdesk-backend/pkg/db/types"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

// Product is the catalog listing. Child collections are owned and replaced wholesale on update.
type Product struct {
	ID                 uint                       `gorm:"column:id;primaryKey"`
	StoreID            uint                       `gorm:"column:store_id;not null;index:idx_products_store_id"`
	BrandID            *uint                      `gorm:"column:brand_id"`
	Name               string                     `gorm:"column:name;not null"`
	Description        *string                    `gorm:"column:description"`
	SKU                *string                    `gorm:"column:sku"`
	Images             dbtypes.StringList         `gorm:"column:images;type:text;not null"`
	Type               enums.ProductType          `gorm:"column:type;type:varchar(16);not null"`
	StockQuantity      int                        `gorm:"column:stock_quantity;not null;default:0"`
	LowStockThreshold  int                        `gorm:"column:low_stock_threshold;not null;default:0"`
	TrackStock         bool                       `gorm:"column:track_stock;not null;default:false"`
	HideFromHomepage   bool                       `gorm:"column:hide_from_homepage;not null;default:false"`
	Pricings           []ProductPricing           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	DescriptionDetails []ProductDescriptionDetail `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Options            []ProductOption            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CategoryLinks      []ProductCategory          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UpsellLinks        []ProductUpsell            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CrossSellLinks     []ProductCrossSell         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductPricing holds one price per currency code.
type ProductPricing struct {
	ID            uint                `gorm:"column:id;primaryKey"`
	ProductID     uint                `gorm:"column:product_id;not null;uniqueIndex:idx_product_pricings_currency,priority:1"`
	CurrencyCode  string              `gorm:"column:currency_code;type:varchar(3);not null;uniqueIndex:idx_product_pricings_currency,priority:2"`
	SellingPrice  decimal.Decimal     `gorm:"column:selling_price;type:numeric(12,2);not null"`
	OriginalPrice decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
}

type ProductDescriptionDetail struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	ProductID uint   `gorm:"column:product_id;not null;index"`
	Title     string `gorm:"column:title;not null"`
	Body      string `gorm:"column:body;not null"`
}

type ProductOption struct {
	ID         uint               `gorm:"column:id;primaryKey"`
	ProductID  uint               `gorm:"column:product_id;not null;index"`
	OptionType string             `gorm:"column:option_type;not null"`
	Values     dbtypes.StringList `gorm:"column:option_values;type:text;not null"`
}

// ProductCategory is the product/category join row.
type ProductCategory struct {
	ProductID  uint     `gorm:"column:product_id;primaryKey"`
	CategoryID uint     `gorm:"column:category_id;primaryKey;index"`
	Category   Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type ProductUpsell struct {
	ProductID       uint `gorm:"column:product_id;primaryKey"`
	UpsellProductID uint `gorm:"column:upsell_product_id;primaryKey;index"`
}

type ProductCrossSell struct {
	ProductID          uint `gorm:"column:product_id;primaryKey"`
	CrossSellProductID uint `gorm:"column:cross_sell_product_id;primaryKey;index"`
}

// ProductVariant is a sellable permutation of a VARIANT product.
type ProductVariant struct {
	ID            uint                   `gorm:"column:id;primaryKey"`
	StoreID       uint                   `gorm:"column:store_id;not null;index:idx_product_variants_store_id"`
	ProductID     uint                   `gorm:"column:product_id;not null;index"`
	Name          string                 `gorm:"column:name;not null"`
	SKU           *string                `gorm:"column:sku"`
	Price         decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity int                    `gorm:"column:stock_quantity;not null;default:0"`
	ImageURL      *string                `gorm:"column:image_url"`
	Options       []ProductVariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Product       *Product               `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

type ProductVariantOption struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	VariantID uint   `gorm:"column:variant_id;not null;index"`
	Name      string `gorm:"column:name;not null"`
	Value     string `gorm:"column:value;not null"`
}
