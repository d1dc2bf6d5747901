package suppliers

import (
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type SupplierDTO struct {
	ID            uint         `json:"id"`
	StoreID       uint         `json:"storeId"`
	Name          string       `json:"name"`
	ContactPerson *string      `json:"contactPerson"`
	Notes         *string      `json:"notes"`
	Emails        []string     `json:"emails"`
	Phones        []string     `json:"phones"`
	Addresses     []AddressDTO `json:"addresses"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type AddressDTO struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" validate:"required"`
	State      *string `json:"state"`
	Country    string  `json:"country" validate:"required"`
	PostalCode *string `json:"postalCode"`
}

// Flatten renders the address on one line.
func (a AddressDTO) Flatten() string {
	parts := []string{a.Line1}
	if a.Line2 != nil {
		parts = append(parts, *a.Line2)
	}
	parts = append(parts, a.City)
	if a.State != nil {
		parts = append(parts, *a.State)
	}
	if a.PostalCode != nil {
		parts = append(parts, *a.PostalCode)
	}
	parts = append(parts, a.Country)

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

type CreateSupplierRequest struct {
	Name          string       `json:"name" validate:"required,max=200"`
	ContactPerson *string      `json:"contactPerson"`
	Notes         *string      `json:"notes"`
	Emails        []string     `json:"emails" validate:"dive,email"`
	Phones        []string     `json:"phones"`
	Addresses     []AddressDTO `json:"addresses" validate:"dive"`
}

// UpdateSupplierRequest is sparse; each present list replaces the stored one.
type UpdateSupplierRequest struct {
	Name          *string       `json:"name" validate:"omitempty,max=200"`
	ContactPerson *string       `json:"contactPerson"`
	Notes         *string       `json:"notes"`
	Emails        *[]string     `json:"emails"`
	Phones        *[]string     `json:"phones"`
	Addresses     *[]AddressDTO `json:"addresses"`
}

type ListQuery struct {
	pagination.Params
	Search string
}

func FromModel(m *models.Supplier) *SupplierDTO {
	dto := &SupplierDTO{
		ID:            m.ID,
		StoreID:       m.StoreID,
		Name:          m.Name,
		ContactPerson: m.ContactPerson,
		Notes:         m.Notes,
		Emails:        make([]string, 0, len(m.Emails)),
		Phones:        make([]string, 0, len(m.Phones)),
		Addresses:     make([]AddressDTO, 0, len(m.Addresses)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, e := range m.Emails {
		dto.Emails = append(dto.Emails, e.Email)
	}
	for _, p := range m.Phones {
		dto.Phones = append(dto.Phones, p.Phone)
	}
	for _, a := range m.Addresses {
		dto.Addresses = append(dto.Addresses, AddressDTO{
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			State:      a.State,
			Country:    a.Country,
			PostalCode: a.PostalCode,
		})
	}
	return dto
}
