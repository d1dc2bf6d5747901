package categories

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, conn
}

func str(v string) *string { return &v }

func TestDescriptionRoundTripsEmptyString(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateCategoryRequest{Name: "Shoes", Description: str("Footwear")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, created.ID, UpdateCategoryRequest{Description: str("")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)
	assert.Equal(t, "Shoes", got.Name)
}

func TestCategoriesAreTenantScoped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateCategoryRequest{Name: "Hats"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Update(ctx, 2, created.ID, UpdateCategoryRequest{Name: str("Stolen")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Delete(ctx, 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hats", got.Name)
}

func TestListSearchesNameAndDescription(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, req := range []CreateCategoryRequest{
		{Name: "Running Shoes"},
		{Name: "Boots", Description: str("Winter SHOES")},
		{Name: "Hats"},
	} {
		_, err := svc.Create(ctx, 1, req)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, 2, CreateCategoryRequest{Name: "Shoes elsewhere"})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, ListQuery{Search: "shoes"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.TotalCount)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, 1, ListQuery{Params: pagination.Params{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.TotalCount)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestDeleteRemovesProductLinks(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateCategoryRequest{Name: "Bags"})
	require.NoError(t, err)
	product := &models.Product{StoreID: 1, Name: "Tote", Type: "REGULAR"}
	require.NoError(t, conn.Create(product).Error)
	require.NoError(t, conn.Create(&models.ProductCategory{ProductID: product.ID, CategoryID: created.ID}).Error)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	var links int64
	require.NoError(t, conn.Model(&models.ProductCategory{}).Count(&links).Error)
	assert.Zero(t, links)
	var products int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(1), products)
}

func TestExportFlattensProductNames(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateCategoryRequest{Name: "Bags", Description: str("Carry things")})
	require.NoError(t, err)
	for _, name := range []string{"Tote", "Backpack"} {
		p := &models.Product{StoreID: 1, Name: name, Type: "REGULAR"}
		require.NoError(t, conn.Create(p).Error)
		require.NoError(t, conn.Create(&models.ProductCategory{ProductID: p.ID, CategoryID: created.ID}).Error)
	}

	out, err := svc.Export(ctx, 1)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Name", "Description", "Image", "Products", "Created At"}, records[0])
	assert.Equal(t, "Bags", records[1][1])
	assert.Equal(t, "Tote, Backpack", records[1][4])
}
