package brands

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *models.Brand) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, storeID uint, search string, page pagination.Params) ([]models.Brand, int64, error) {
	q := r.scoped(ctx, storeID, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Brand
	err := q.Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.Brand, error) {
	var out []models.Brand
	if err := r.scoped(ctx, storeID, "").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ProductCounts maps brand id to the number of store products carrying it.
func (r *Repository) ProductCounts(ctx context.Context, storeID uint) (map[uint]int64, error) {
	type row struct {
		BrandID uint
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("brand_id, COUNT(*) AS total").
		Where("store_id = ? AND brand_id IS NOT NULL", storeID).
		Group("brand_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.BrandID] = r.Total
	}
	return out, nil
}

func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Brand{}).
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

// Delete detaches the brand from the store's products and removes it.
func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	err := tx.Model(&models.Product{}).
		Where("store_id = ? AND brand_id = ?", storeID, id).
		Update("brand_id", nil).Error
	if err != nil {
		return err
	}
	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Brand{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Brand{}).Where("store_id = ?", storeID)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", like, like)
	}
	return q
}
