package settings

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists store settings rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindShipping(ctx context.Context, storeID uint) (*models.ShippingConfig, error) {
	var cfg models.ShippingConfig
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveShipping inserts or updates the single shipping row for the store.
func (r *Repository) SaveShipping(ctx context.Context, cfg *models.ShippingConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "flat_rate", "free_shipping_threshold", "currency", "updated_at"}),
		}).
		Create(cfg).Error
}

func (r *Repository) ListShippingMethods(ctx context.Context, storeID uint, activeOnly bool) ([]models.ShippingMethod, error) {
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var methods []models.ShippingMethod
	if err := q.Order("id ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *Repository) CreateShippingMethod(ctx context.Context, method *models.ShippingMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

// DeleteShippingMethod removes a method scoped to the store.
func (r *Repository) DeleteShippingMethod(ctx context.Context, storeID, id uint) error {
	res := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&models.ShippingMethod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindGeneral(ctx context.Context, storeID uint) (*models.StoreSettings, error) {
	var s models.StoreSettings
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) SaveGeneral(ctx context.Context, s *models.StoreSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"timezone", "support_email", "support_phone", "order_prefix", "weight_unit", "updated_at"}),
		}).
		Create(s).Error
}

func (r *Repository) ListLocations(ctx context.Context, storeID uint) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("is_primary DESC, id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *Repository) FindPrimaryLocation(ctx context.Context, storeID uint) (*models.Location, error) {
	var loc models.Location
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_primary = ?", storeID, true).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *Repository) CountLocations(ctx context.Context, storeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Location{}).Where("store_id = ?", storeID).Count(&count).Error
	return count, err
}

// ClearPrimary unsets is_primary on every location of the store.
func (r *Repository) ClearPrimary(ctx context.Context, storeID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("store_id = ? AND is_primary = ?", storeID, true).
		UpdateColumn("is_primary", false).Error
}

func (r *Repository) CreateLocation(ctx context.Context, loc *models.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *Repository) DeleteLocation(ctx context.Context, storeID, id uint) error {
	res := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Location{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
