package variants

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, storeID uint, name string) *models.Product {
	t.Helper()
	p := &models.Product{StoreID: storeID, Name: name, Type: enums.ProductTypeVariant}
	require.NoError(t, conn.Create(p).Error)
	return p
}

func TestCreateRequiresProductInStore(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	foreign := mustCreateProduct(t, conn, 2, "Theirs")

	_, err := svc.Create(ctx, 1, CreateVariantRequest{ProductID: foreign.ID, Name: "Small", Price: decimal.NewFromInt(5)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var n int64
	require.NoError(t, conn.Model(&models.ProductVariant{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestVariantLifecycle(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shirt := mustCreateProduct(t, conn, 1, "Shirt")

	created, err := svc.Create(ctx, 1, CreateVariantRequest{
		ProductID: shirt.ID,
		Name:      "Shirt / M / Red",
		Price:     decimal.RequireFromString("19.999"),
		Options:   []OptionInput{{Name: "Size", Value: "M"}, {Name: "Color", Value: "Red"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", created.Price.StringFixed(2))
	assert.Equal(t, "Shirt", created.ProductName)
	assert.Len(t, created.Options, 2)

	stock := 4
	updated, err := svc.Update(ctx, 1, created.ID, UpdateVariantRequest{StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.StockQuantity)
	assert.Len(t, updated.Options, 2)

	replaced := []OptionInput{{Name: "Size", Value: "L"}}
	updated, err = svc.Update(ctx, 1, created.ID, UpdateVariantRequest{Options: &replaced})
	require.NoError(t, err)
	assert.Equal(t, []OptionInput{{Name: "Size", Value: "L"}}, updated.Options)

	_, err = svc.Update(ctx, 2, created.ID, UpdateVariantRequest{StockQuantity: &stock})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	out, err := svc.Export(ctx, 1)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Shirt", records[1][1])
	assert.Equal(t, "Size: L", records[1][6])

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	var n int64
	require.NoError(t, conn.Model(&models.ProductVariantOption{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListFiltersByProduct(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shirt := mustCreateProduct(t, conn, 1, "Shirt")
	hat := mustCreateProduct(t, conn, 1, "Hat")

	for _, req := range []CreateVariantRequest{
		{ProductID: shirt.ID, Name: "S"},
		{ProductID: shirt.ID, Name: "M"},
		{ProductID: hat.ID, Name: "One size"},
	} {
		_, err := svc.Create(ctx, 1, req)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, ListQuery{ProductID: &shirt.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.TotalCount)

	page, err = svc.List(ctx, 1, ListQuery{Search: "one"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, hat.ID, page.Items[0].ProductID)
}
