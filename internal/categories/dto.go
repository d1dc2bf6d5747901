package categories

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type CategoryDTO struct {
	ID          uint      `json:"id"`
	StoreID     uint      `json:"storeId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,url"`
}

// UpdateCategoryRequest is sparse. An empty description is stored as "".
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type ListQuery struct {
	pagination.Params
	Search string
}

func FromModel(m *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
