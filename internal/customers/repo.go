package customers

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists customers. Every lookup except the refresh slot is store scoped.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *Repository) FindByEmail(ctx context.Context, storeID uint, email string) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Where("store_id = ? AND email = ?", storeID, email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) FindByID(ctx context.Context, storeID, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateFields applies a sparse column update scoped to the store.
func (r *Repository) UpdateFields(ctx context.Context, storeID, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
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

func (r *Repository) UpdateLastActive(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("last_active_at", at).Error
}

// SaveRefreshToken overwrites the single refresh token slot; nil clears it.
func (r *Repository) SaveRefreshToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("refresh_token", token).Error
}

func (r *Repository) RefreshToken(ctx context.Context, id uint) (*string, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Select("id", "refresh_token").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return c.RefreshToken, nil
}

// List returns one page of the store's customers, newest first.
func (r *Repository) List(ctx context.Context, storeID uint, search string, page pagination.Params) ([]models.Customer, int64, error) {
	q := r.scoped(ctx, storeID, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Customer
	err := q.Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListAll(ctx context.Context, storeID uint) ([]models.Customer, error) {
	var out []models.Customer
	if err := r.scoped(ctx, storeID, "").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, storeID, id uint) error {
	res := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, storeID uint, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Customer{}).Where("store_id = ?", storeID)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(firstname) LIKE ? OR LOWER(lastname) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	return q
}
