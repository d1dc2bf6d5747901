package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

type Supplier struct {
	ID            uint              `gorm:"column:id;primaryKey"`
	StoreID       uint              `gorm:"column:store_id;not null;index:idx_suppliers_store_id"`
	Name          string            `gorm:"column:name;not null"`
	ContactPerson *string           `gorm:"column:contact_person"`
	Notes         *string           `gorm:"column:notes"`
	Emails        []SupplierEmail   `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	Phones        []SupplierPhone   `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	Addresses     []SupplierAddress `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

type SupplierEmail struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	SupplierID uint   `gorm:"column:supplier_id;not null;index"`
	Email      string `gorm:"column:email;not null"`
}

type SupplierPhone struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	SupplierID uint   `gorm:"column:supplier_id;not null;index"`
	Phone      string `gorm:"column:phone;not null"`
}

type SupplierAddress struct {
	ID         uint    `gorm:"column:id;primaryKey"`
	SupplierID uint    `gorm:"column:supplier_id;not null;index"`
	Line1      string  `gorm:"column:line1;not null"`
	Line2      *string `gorm:"column:line2"`
	City       string  `gorm:"column:city;not null"`
	State      *string `gorm:"column:state"`
	Country    string  `gorm:"column:country;not null"`
	PostalCode *string `gorm:"column:postal_code"`
}

// Invoice records stock purchased from a supplier.
type Invoice struct {
	ID            uint                `gorm:"column:id;primaryKey"`
	StoreID       uint                `gorm:"column:store_id;not null;uniqueIndex:idx_invoices_store_number,priority:1"`
	SupplierID    *uint               `gorm:"column:supplier_id;index"`
	InvoiceNumber string              `gorm:"column:invoice_number;not null;uniqueIndex:idx_invoices_store_number,priority:2"`
	Status        enums.InvoiceStatus `gorm:"column:status;type:varchar(16);not null"`
	IssueDate     *time.Time          `gorm:"column:issue_date"`
	DueDate       *time.Time          `gorm:"column:due_date"`
	Notes         *string             `gorm:"column:notes"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(14,2);not null"`
	Items         []InvoiceItem       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Supplier      *Supplier           `gorm:"foreignKey:SupplierID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

type InvoiceItem struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	InvoiceID   uint            `gorm:"column:invoice_id;not null;index"`
	ProductID   *uint           `gorm:"column:product_id"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null"`
}
