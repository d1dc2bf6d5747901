package stores

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/visibility"
	"gorm.io/gorm"
)

// Repository handles store persistence and the storefront catalog reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *Repository) FindByUserID(ctx context.Context, userID uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByURL matches the slug case-insensitively.
func (r *Repository) FindByURL(ctx context.Context, storeURL string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("LOWER(store_url) = LOWER(?)", storeURL).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// URLTaken reports whether another store owns exactly this slug.
func (r *Repository) URLTaken(ctx context.Context, storeURL string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Store{}).Where("store_url = ?", storeURL)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields applies a sparse column update.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListVisibleProducts returns storefront products with their pricings, newest first.
func (r *Repository) ListVisibleProducts(ctx context.Context, storeID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Pricings", func(db *gorm.DB) *gorm.DB { return db.Order("currency_code ASC") }).
		Scopes(visibility.StorefrontProducts(storeID)).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) ListCategories(ctx context.Context, storeID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListCategoryLinks returns the join rows for the given categories.
func (r *Repository) ListCategoryLinks(ctx context.Context, categoryIDs []uint) ([]models.ProductCategory, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var links []models.ProductCategory
	err := r.db.WithContext(ctx).
		Select("product_id", "category_id").
		Where("category_id IN ?", categoryIDs).
		Order("category_id ASC, product_id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *Repository) ListBrands(ctx context.Context, storeID uint) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("name ASC, id ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
