package variants

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ProductExists reports whether the product belongs to the store.
func (r *Repository) ProductExists(ctx context.Context, storeID, productID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("store_id = ? AND id = ?", storeID, productID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) Create(ctx context.Context, v *models.ProductVariant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := withChildren(r.db.WithContext(ctx)).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) List(ctx context.Context, storeID uint, q ListQuery, page pagination.Params) ([]models.ProductVariant, int64, error) {
	db := r.scoped(ctx, storeID, q)

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.ProductVariant
	err := withChildren(db).
		Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	err := withChildren(r.scoped(ctx, storeID, ListQuery{})).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
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

func (r *Repository) ReplaceOptions(ctx context.Context, variantID uint, rows []models.ProductVariantOption) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("variant_id = ?", variantID).Delete(&models.ProductVariantOption{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("variant_id = ?", id).Delete(&models.ProductVariantOption{}).Error; err != nil {
		return err
	}
	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.ProductVariant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, q ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("store_id = ?", storeID)
	if q.ProductID != nil {
		db = db.Where("product_id = ?", *q.ProductID)
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?)", like, like)
	}
	return db
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Options", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Product")
}
