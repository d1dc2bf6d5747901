package product

import (
	"context"
	"strconv"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
)

var exportHeaders = []string{
	"ID", "Name", "SKU", "Type", "Brand", "Categories", "Prices", "Options",
	"Images", "Stock Quantity", "Low Stock Threshold", "Hidden From Homepage", "Created At",
}

// ExportProducts renders the store's whole catalog as CSV.
func (s *service) ExportProducts(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAllProducts(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	brands, err := s.repo.BrandNames(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "brand")
	}

	table := export.Table{Headers: exportHeaders}
	for i := range rows {
		p := &rows[i]
		brand := ""
		if p.BrandID != nil {
			brand = brands[*p.BrandID]
		}
		table.Append(
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			export.Str(p.SKU),
			string(p.Type),
			brand,
			export.JoinList(categoryNames(p)),
			export.JoinList(priceLabels(p)),
			export.JoinList(optionLabels(p)),
			export.JoinList(p.Images),
			strconv.Itoa(p.StockQuantity),
			strconv.Itoa(p.LowStockThreshold),
			strconv.FormatBool(p.HideFromHomepage),
			p.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
}

func categoryNames(p *models.Product) []string {
	out := make([]string, 0, len(p.CategoryLinks))
	for _, link := range p.CategoryLinks {
		out = append(out, link.Category.Name)
	}
	return out
}

func priceLabels(p *models.Product) []string {
	out := make([]string, 0, len(p.Pricings))
	for _, pr := range p.Pricings {
		out = append(out, pr.CurrencyCode+" "+pr.SellingPrice.StringFixed(2))
	}
	return out
}

// optionLabels renders each option as "Size: S/M/L".
func optionLabels(p *models.Product) []string {
	out := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		label := o.OptionType
		if len(o.Values) > 0 {
			label += ": " + o.Values.Join("/")
		}
		out = append(out, label)
	}
	return out
}
