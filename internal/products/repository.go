package product

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

const maxPriceExpr = "COALESCE((SELECT MAX(pp.selling_price) FROM product_pricings pp WHERE pp.product_id = products.id), 0)"

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts the product row only; children are written separately.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// FindByID loads the product without associations, scoped to the store.
func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with every owned child collection.
func (r *Repository) GetProductDetail(ctx context.Context, storeID, id uint) (*models.Product, error) {
	var product models.Product
	err := withChildren(r.db.WithContext(ctx)).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&product).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one page of the store's products plus the unpaged total.
func (r *Repository) ListProducts(ctx context.Context, storeID uint, input ListProductsInput) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("store_id = ?", storeID)
	if search := strings.ToLower(strings.TrimSpace(input.Search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", like, like)
	}
	if input.CategoryID != nil {
		q = q.Where("id IN (SELECT product_id FROM product_categories WHERE category_id = ?)", *input.CategoryID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch input.Sort {
	case enums.ProductSortHighest:
		q = q.Order(maxPriceExpr + " DESC").Order("id DESC")
	case enums.ProductSortLowest:
		q = q.Order(maxPriceExpr + " ASC").Order("id ASC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}

	page := input.Pagination
	var rows []models.Product
	err := withChildren(q).
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListAllProducts loads the store's full catalog for export.
func (r *Repository) ListAllProducts(ctx context.Context, storeID uint) ([]models.Product, error) {
	var rows []models.Product
	err := withChildren(r.db.WithContext(ctx)).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// BrandNames maps brand id to name for the store.
func (r *Repository) BrandNames(ctx context.Context, storeID uint) (map[uint]string, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Find(&brands).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(brands))
	for _, b := range brands {
		out[b.ID] = b.Name
	}
	return out, nil
}

// UpdateProductFields applies a sparse column update.
func (r *Repository) UpdateProductFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOwned returns how many of ids exist in table for the store.
func (r *Repository) CountOwned(ctx context.Context, table string, storeID uint, ids []uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Count(&n).Error
	return n, err
}

// ReplacePricings replaces all pricing rows for the product.
func (r *Repository) ReplacePricings(ctx context.Context, productID uint, rows []models.ProductPricing) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductPricing{}, rows)
}

// ReplaceDescriptionDetails replaces all description sections for the product.
func (r *Repository) ReplaceDescriptionDetails(ctx context.Context, productID uint, rows []models.ProductDescriptionDetail) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductDescriptionDetail{}, rows)
}

// ReplaceOptions replaces all option sets for the product.
func (r *Repository) ReplaceOptions(ctx context.Context, productID uint, rows []models.ProductOption) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductOption{}, rows)
}

// ReplaceCategories replaces the product's category links.
func (r *Repository) ReplaceCategories(ctx context.Context, productID uint, rows []models.ProductCategory) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductCategory{}, rows)
}

// ReplaceUpsells replaces the product's outgoing upsell links.
func (r *Repository) ReplaceUpsells(ctx context.Context, productID uint, rows []models.ProductUpsell) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductUpsell{}, rows)
}

// ReplaceCrossSells replaces the product's outgoing cross-sell links.
func (r *Repository) ReplaceCrossSells(ctx context.Context, productID uint, rows []models.ProductCrossSell) error {
	return replace(r.db.WithContext(ctx), "product_id = ?", productID, &models.ProductCrossSell{}, rows)
}

// DeleteProduct removes the product, every owned child, links pointing at it
// from other products, and its variants. Invoice lines keep their text but
// lose the product reference.
func (r *Repository) DeleteProduct(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	steps := []struct {
		query string
		args  []any
		model any
	}{
		{"product_id = ?", []any{id}, &models.ProductPricing{}},
		{"product_id = ?", []any{id}, &models.ProductDescriptionDetail{}},
		{"product_id = ?", []any{id}, &models.ProductOption{}},
		{"product_id = ?", []any{id}, &models.ProductCategory{}},
		{"product_id = ? OR upsell_product_id = ?", []any{id, id}, &models.ProductUpsell{}},
		{"product_id = ? OR cross_sell_product_id = ?", []any{id, id}, &models.ProductCrossSell{}},
		{"variant_id IN (SELECT id FROM product_variants WHERE product_id = ?)", []any{id}, &models.ProductVariantOption{}},
		{"product_id = ?", []any{id}, &models.ProductVariant{}},
	}
	for _, step := range steps {
		if err := tx.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(&models.InvoiceItem{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
		return err
	}

	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Pricings", func(db *gorm.DB) *gorm.DB { return db.Order("currency_code ASC") }).
		Preload("DescriptionDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("CategoryLinks.Category").
		Preload("UpsellLinks").
		Preload("CrossSellLinks")
}

func replace[T any](tx *gorm.DB, query string, productID uint, model any, rows []T) error {
	if err := tx.Where(query, productID).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
