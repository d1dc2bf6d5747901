package suppliers

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

func (r *Repository) Create(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Supplier, error) {
	var s models.Supplier
	err := withChildren(r.db.WithContext(ctx)).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) List(ctx context.Context, storeID uint, search string, page pagination.Params) ([]models.Supplier, int64, error) {
	q := r.scoped(ctx, storeID, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Supplier
	err := withChildren(q).
		Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.Supplier, error) {
	var out []models.Supplier
	err := withChildren(r.scoped(ctx, storeID, "")).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Supplier{}).
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

func (r *Repository) ReplaceEmails(ctx context.Context, supplierID uint, rows []models.SupplierEmail) error {
	return replace(r.db.WithContext(ctx), supplierID, &models.SupplierEmail{}, rows)
}

func (r *Repository) ReplacePhones(ctx context.Context, supplierID uint, rows []models.SupplierPhone) error {
	return replace(r.db.WithContext(ctx), supplierID, &models.SupplierPhone{}, rows)
}

func (r *Repository) ReplaceAddresses(ctx context.Context, supplierID uint, rows []models.SupplierAddress) error {
	return replace(r.db.WithContext(ctx), supplierID, &models.SupplierAddress{}, rows)
}

// Delete removes the supplier's contact rows and detaches its invoices.
func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	for _, model := range []any{&models.SupplierEmail{}, &models.SupplierPhone{}, &models.SupplierAddress{}} {
		if err := tx.Where("supplier_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	err := tx.Model(&models.Invoice{}).
		Where("store_id = ? AND supplier_id = ?", storeID, id).
		Update("supplier_id", nil).Error
	if err != nil {
		return err
	}
	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Supplier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Supplier{}).Where("store_id = ?", storeID)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(contact_person, '')) LIKE ?)", like, like)
	}
	return q
}

func withChildren(q *gorm.DB) *gorm.DB {
	byID := func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }
	return q.Preload("Emails", byID).Preload("Phones", byID).Preload("Addresses", byID)
}

func replace[T any](tx *gorm.DB, supplierID uint, model any, rows []T) error {
	if err := tx.Where("supplier_id = ?", supplierID).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
