package stores

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/visibility"
)

// Storefront assembles the public read model. Catalog reads fail the request;
// the settings blocks are best-effort and degrade to null or empty.
func (s *service) Storefront(ctx context.Context, storeURL string) (*StorefrontDTO, error) {
	store, err := s.repo.FindByURL(ctx, storeURL)
	if err != nil {
		return nil, db.Translate(err, "store")
	}
	if err := visibility.EnsureStorefrontVisible(store); err != nil {
		return nil, err
	}
	ctx = s.logg.WithStoreID(ctx, store.ID)

	products, err := s.repo.ListVisibleProducts(ctx, store.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	categories, err := s.repo.ListCategories(ctx, store.ID)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	categoryIDs := make([]uint, 0, len(categories))
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}
	links, err := s.repo.ListCategoryLinks(ctx, categoryIDs)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	brands, err := s.repo.ListBrands(ctx, store.ID)
	if err != nil {
		return nil, db.Translate(err, "brand")
	}

	out := &StorefrontDTO{
		Store:           publicFromModel(store),
		Products:        make([]ProductSummary, 0, len(products)),
		Categories:      make([]CategorySummary, 0, len(categories)),
		Brands:          make([]BrandSummary, 0, len(brands)),
		ShippingMethods: []settings.ShippingMethodDTO{},
	}

	byID := make(map[uint]ProductSummary, len(products))
	for _, p := range products {
		summary := productSummary(p)
		byID[p.ID] = summary
		out.Products = append(out.Products, summary)
	}

	nested := make(map[uint][]ProductSummary, len(categories))
	for _, link := range links {
		if summary, ok := byID[link.ProductID]; ok {
			nested[link.CategoryID] = append(nested[link.CategoryID], summary)
		}
	}
	for _, c := range categories {
		items := nested[c.ID]
		if items == nil {
			items = []ProductSummary{}
		}
		out.Categories = append(out.Categories, CategorySummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Image:       c.Image,
			Products:    items,
		})
	}
	for _, b := range brands {
		out.Brands = append(out.Brands, brandSummary(b))
	}

	public, err := s.settings.Public(ctx, store.ID)
	if err != nil {
		warnCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(warnCtx, "storefront settings partially unavailable")
	}
	if public != nil {
		out.Shipping = public.Shipping
		out.Settings = public.General
		out.Location = public.Location
		if public.ShippingMethods != nil {
			out.ShippingMethods = public.ShippingMethods
		}
	}
	return out, nil
}
