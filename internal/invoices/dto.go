package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type InvoiceDTO struct {
	ID            uint                `json:"id"`
	StoreID       uint                `json:"storeId"`
	SupplierID    *uint               `json:"supplierId"`
	SupplierName  *string             `json:"supplierName"`
	InvoiceNumber string              `json:"invoiceNumber"`
	Status        enums.InvoiceStatus `json:"status"`
	IssueDate     *time.Time          `json:"issueDate"`
	DueDate       *time.Time          `json:"dueDate"`
	Notes         *string             `json:"notes"`
	Total         decimal.Decimal     `json:"total"`
	Items         []ItemDTO           `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type ItemDTO struct {
	ID          uint            `json:"id"`
	ProductID   *uint           `json:"productId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type ItemInput struct {
	ProductID   *uint           `json:"productId"`
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type CreateInvoiceRequest struct {
	SupplierID    *uint               `json:"supplierId"`
	InvoiceNumber string              `json:"invoiceNumber" validate:"required,max=64"`
	Status        enums.InvoiceStatus `json:"status"`
	IssueDate     *time.Time          `json:"issueDate"`
	DueDate       *time.Time          `json:"dueDate"`
	Notes         *string             `json:"notes"`
	Items         []ItemInput         `json:"items" validate:"dive"`
}

// UpdateInvoiceRequest is sparse. Present items replace every stored line and
// the total is recomputed.
type UpdateInvoiceRequest struct {
	SupplierID    *uint                `json:"supplierId"`
	InvoiceNumber *string              `json:"invoiceNumber" validate:"omitempty,max=64"`
	Status        *enums.InvoiceStatus `json:"status"`
	IssueDate     *time.Time           `json:"issueDate"`
	DueDate       *time.Time           `json:"dueDate"`
	Notes         *string              `json:"notes"`
	Items         *[]ItemInput         `json:"items"`
}

type ListQuery struct {
	pagination.Params
	Search string
	Status *enums.InvoiceStatus
}

func FromModel(m *models.Invoice) *InvoiceDTO {
	dto := &InvoiceDTO{
		ID:            m.ID,
		StoreID:       m.StoreID,
		SupplierID:    m.SupplierID,
		InvoiceNumber: m.InvoiceNumber,
		Status:        m.Status,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Notes:         m.Notes,
		Total:         m.Total,
		Items:         make([]ItemDTO, 0, len(m.Items)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Supplier != nil {
		name := m.Supplier.Name
		dto.SupplierName = &name
	}
	for _, it := range m.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return dto
}
