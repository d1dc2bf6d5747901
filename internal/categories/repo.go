package categories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// Repository persists categories; every query is scoped to one store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, storeID uint, search string, page pagination.Params) ([]models.Category, int64, error) {
	q := r.scoped(ctx, storeID, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Category
	err := q.Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.Category, error) {
	var out []models.Category
	if err := r.scoped(ctx, storeID, "").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ProductNames maps each category id of the store to the names of its linked products.
func (r *Repository) ProductNames(ctx context.Context, storeID uint) (map[uint][]string, error) {
	type row struct {
		CategoryID uint
		Name       string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("product_categories pc").
		Select("pc.category_id, p.name").
		Joins("JOIN products p ON p.id = pc.product_id").
		Where("p.store_id = ?", storeID).
		Order("pc.category_id ASC, p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint][]string)
	for _, r := range rows {
		out[r.CategoryID] = append(out[r.CategoryID], r.Name)
	}
	return out, nil
}

func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Category{}).
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

// Delete removes the category's product links before the row itself.
func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("category_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("store_id = ?", storeID)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", like, like)
	}
	return q
}
