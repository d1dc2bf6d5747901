package brands

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type BrandDTO struct {
	ID          uint      `json:"id"`
	StoreID     uint      `json:"storeId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	LogoURL     *string   `json:"logoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateBrandRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logoUrl" validate:"omitempty,url"`
}

type UpdateBrandRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logoUrl"`
}

type ListQuery struct {
	pagination.Params
	Search string
}

func FromModel(m *models.Brand) *BrandDTO {
	return &BrandDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
