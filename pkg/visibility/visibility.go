package visibility

import (
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

// EnsureStorefrontVisible gates the public storefront. Unlaunched stores are
// reported as forbidden so owners can tell them apart from a wrong URL.
func EnsureStorefrontVisible(store *models.Store) error {
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if !store.IsLaunched {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store is not launched")
	}
	return nil
}

// StorefrontProducts scopes a products query to what the storefront may show.
func StorefrontProducts(storeID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("store_id = ? AND hide_from_homepage = ?", storeID, false)
	}
}
