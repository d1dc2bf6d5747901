package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, conn
}

func mustCreateCategory(t *testing.T, tx *gorm.DB, storeID uint, name string) *models.Category {
	t.Helper()
	c := &models.Category{StoreID: storeID, Name: name}
	require.NoError(t, tx.Create(c).Error)
	return c
}

func mustCreateBrand(t *testing.T, tx *gorm.DB, storeID uint, name string) *models.Brand {
	t.Helper()
	b := &models.Brand{StoreID: storeID, Name: name}
	require.NoError(t, tx.Create(b).Error)
	return b
}

func price(currency, amount string) PricingInput {
	return PricingInput{CurrencyCode: currency, SellingPrice: decimal.RequireFromString(amount)}
}

func stringPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func countRows(t *testing.T, tx *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tx.Model(model).Count(&n).Error)
	return n
}
