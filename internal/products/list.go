package product

import (
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// ListProductsInput captures the browse knobs for a store's catalog.
type ListProductsInput struct {
	Pagination pagination.Params
	Search     string
	CategoryID *uint
	Sort       enums.ProductSort
}
