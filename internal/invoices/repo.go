package invoices

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

func (r *Repository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := withChildren(r.db.WithContext(ctx)).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) List(ctx context.Context, storeID uint, q ListQuery, page pagination.Params) ([]models.Invoice, int64, error) {
	db := r.scoped(ctx, storeID, q)

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Invoice
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

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	err := withChildren(r.scoped(ctx, storeID, ListQuery{})).Order("id ASC").Find(&out).Error
	return out, err
}

// CountOwned returns how many of ids exist in table for the store.
func (r *Repository) CountOwned(ctx context.Context, table string, storeID uint, ids []uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(table).Where("store_id = ? AND id IN ?", storeID, ids).Count(&n).Error
	return n, err
}

func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Invoice{}).
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

func (r *Repository) ReplaceItems(ctx context.Context, invoiceID uint, items []models.InvoiceItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	res := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, q ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("store_id = ?", storeID)
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		db = db.Where("LOWER(invoice_number) LIKE ?", "%"+search+"%")
	}
	return db
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Supplier")
}
