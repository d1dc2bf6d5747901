package product

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateProductWritesChildren(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")
	brand := mustCreateBrand(t, conn, 1, "Acme")

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{
		Name:               "Runner",
		BrandID:            &brand.ID,
		Images:             []string{"https://cdn.test/a.png", " "},
		Pricings:           []PricingInput{price("usd", "49.99"), price("EUR", "45")},
		DescriptionDetails: []DescriptionDetail{{Title: "Care", Body: "Hand wash"}},
		Options:            []OptionDTO{{OptionType: "Size", Values: []string{"S", "M"}}},
		Categories:         []uint{shoes.ID, shoes.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.ProductTypeRegular, created.Type)
	assert.Equal(t, []string{"https://cdn.test/a.png"}, created.Images)
	require.Len(t, created.Pricings, 2)
	assert.Equal(t, "EUR", created.Pricings[0].CurrencyCode)
	assert.Equal(t, "USD", created.Pricings[1].CurrencyCode)
	assert.Len(t, created.DescriptionDetails, 1)
	assert.Equal(t, []CategoryRef{{ID: shoes.ID, Name: "Shoes"}}, created.Categories)
	require.NotNil(t, created.BrandID)
	assert.Equal(t, brand.ID, *created.BrandID)
}

func TestCreateProductRejectsForeignCategory(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	foreign := mustCreateCategory(t, conn, 2, "Elsewhere")

	_, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Ghost", Categories: []uint{999}})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Ghost", Categories: []uint{foreign.ID}})
	requireCode(t, err, pkgerrors.CodeValidation)

	assert.Zero(t, countRows(t, conn, &models.Product{}))
	assert.Zero(t, countRows(t, conn, &models.ProductCategory{}))
}

func TestCreateProductDuplicateCurrencyRollsBack(t *testing.T) {
	svc, conn := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), 1, CreateProductRequest{
		Name:     "Twice",
		Pricings: []PricingInput{price("USD", "1"), price("usd", "2")},
	})
	requireCode(t, err, pkgerrors.CodeConflict)
	assert.Zero(t, countRows(t, conn, &models.Product{}))
}

func TestUpdateReplacesOnlyPresentRelations(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")
	sale := mustCreateCategory(t, conn, 1, "Sale")

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{
		Name:       "Runner",
		Pricings:   []PricingInput{price("USD", "10")},
		Options:    []OptionDTO{{OptionType: "Size", Values: []string{"S"}}},
		Categories: []uint{shoes.ID},
	})
	require.NoError(t, err)

	empty := []OptionDTO{}
	categories := []uint{sale.ID}
	updated, err := svc.UpdateProduct(ctx, 1, created.ID, UpdateProductRequest{
		Name:       stringPtr("Runner 2"),
		Options:    &empty,
		Categories: &categories,
	})
	require.NoError(t, err)

	assert.Equal(t, "Runner 2", updated.Name)
	assert.Empty(t, updated.Options)
	assert.Equal(t, []CategoryRef{{ID: sale.ID, Name: "Sale"}}, updated.Categories)
	require.Len(t, updated.Pricings, 1)
	assert.True(t, updated.Pricings[0].SellingPrice.Equal(price("USD", "10").SellingPrice))
}

func TestUpdateIsTenantScoped(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, 2, created.ID, UpdateProductRequest{Name: stringPtr("Theirs")})
	requireCode(t, err, pkgerrors.CodeNotFound)

	err = svc.DeleteProduct(ctx, 2, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	var stored models.Product
	require.NoError(t, conn.First(&stored, created.ID).Error)
	assert.Equal(t, "Mine", stored.Name)
}

func TestUpdateRejectsForeignCategoryWithoutWriting(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Runner", Categories: []uint{shoes.ID}})
	require.NoError(t, err)

	bad := []uint{999}
	_, err = svc.UpdateProduct(ctx, 1, created.ID, UpdateProductRequest{Name: stringPtr("Changed"), Categories: &bad})
	requireCode(t, err, pkgerrors.CodeValidation)

	got, err := svc.GetProduct(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runner", got.Name)
	assert.Len(t, got.Categories, 1)
}

func TestDeleteCascadesLinksBothDirections(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")

	target, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Target", Categories: []uint{shoes.ID}})
	require.NoError(t, err)
	other, err := svc.CreateProduct(ctx, 1, CreateProductRequest{
		Name:              "Other",
		UpsellProducts:    []uint{target.ID},
		CrossSellProducts: []uint{target.ID},
	})
	require.NoError(t, err)
	upsells := []uint{other.ID}
	_, err = svc.UpdateProduct(ctx, 1, target.ID, UpdateProductRequest{UpsellProducts: &upsells})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, 1, target.ID))

	assert.Zero(t, countRows(t, conn, &models.ProductCategory{}))
	assert.Zero(t, countRows(t, conn, &models.ProductUpsell{}))
	assert.Zero(t, countRows(t, conn, &models.ProductCrossSell{}))
	assert.Equal(t, int64(1), countRows(t, conn, &models.Category{}))

	got, err := svc.GetProduct(ctx, 1, other.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UpsellProductIDs)
}

func TestUpsellCannotReferenceSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Loop"})
	require.NoError(t, err)
	self := []uint{created.ID}
	_, err = svc.UpdateProduct(ctx, 1, created.ID, UpdateProductRequest{UpsellProducts: &self})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestListFiltersAndSorts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")

	cheap, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Cheap Shoe", Pricings: []PricingInput{price("USD", "5")}, Categories: []uint{shoes.ID}})
	require.NoError(t, err)
	pricey, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Fancy Shoe", Pricings: []PricingInput{price("USD", "10"), price("EUR", "90")}})
	require.NoError(t, err)
	tieA, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Hat A", Pricings: []PricingInput{price("USD", "20")}})
	require.NoError(t, err)
	tieB, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Hat B", Description: stringPtr("a SHOE hat"), Pricings: []PricingInput{price("USD", "20")}})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, 2, CreateProductRequest{Name: "Foreign Shoe"})
	require.NoError(t, err)

	ids := func(page pagination.Page[ProductDTO]) []uint {
		out := make([]uint, 0, len(page.Items))
		for _, item := range page.Items {
			out = append(out, item.ID)
		}
		return out
	}

	page, err := svc.ListProducts(ctx, 1, ListProductsInput{Sort: enums.ProductSortHighest})
	require.NoError(t, err)
	assert.Equal(t, []uint{pricey.ID, tieB.ID, tieA.ID, cheap.ID}, ids(page))

	page, err = svc.ListProducts(ctx, 1, ListProductsInput{Sort: enums.ProductSortLowest})
	require.NoError(t, err)
	assert.Equal(t, []uint{cheap.ID, tieA.ID, tieB.ID, pricey.ID}, ids(page))

	page, err = svc.ListProducts(ctx, 1, ListProductsInput{Search: "shoe"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{cheap.ID, pricey.ID, tieB.ID}, ids(page))
	assert.Equal(t, int64(3), page.Meta.TotalCount)

	page, err = svc.ListProducts(ctx, 1, ListProductsInput{CategoryID: &shoes.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{cheap.ID}, ids(page))

	page, err = svc.ListProducts(ctx, 1, ListProductsInput{Pagination: pagination.Params{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Meta.TotalCount)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestAdjustStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, 1, CreateProductRequest{Name: "Widget", StockQuantity: 10})
	require.NoError(t, err)

	got, err := svc.AdjustStock(ctx, 1, created.ID, StockRequest{Quantity: intPtr(2), LowStockThreshold: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)
	assert.True(t, got.TrackStock)
	assert.True(t, got.LowStock)

	_, err = svc.AdjustStock(ctx, 1, created.ID, StockRequest{Quantity: intPtr(-1)})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AdjustStock(ctx, 2, created.ID, StockRequest{Quantity: intPtr(1)})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestExportFlattensCollections(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	shoes := mustCreateCategory(t, conn, 1, "Shoes")
	sale := mustCreateCategory(t, conn, 1, "Sale")
	brand := mustCreateBrand(t, conn, 1, "Acme")

	_, err := svc.CreateProduct(ctx, 1, CreateProductRequest{
		Name:       "Runner",
		BrandID:    &brand.ID,
		Pricings:   []PricingInput{price("USD", "10")},
		Options:    []OptionDTO{{OptionType: "Size", Values: []string{"S", "M"}}, {OptionType: "Color"}},
		Categories: []uint{shoes.ID, sale.ID},
	})
	require.NoError(t, err)

	out, err := svc.ExportProducts(ctx, 1)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeaders, records[0])
	row := records[1]
	assert.Equal(t, "Acme", row[4])
	assert.ElementsMatch(t, []string{"Shoes", "Sale"}, splitList(row[5]))
	assert.Equal(t, "USD 10.00", row[6])
	assert.Equal(t, "Size: S/M, Color", row[7])
}

func splitList(v string) []string {
	var out []string
	for _, part := range bytes.Split([]byte(v), []byte(", ")) {
		out = append(out, string(part))
	}
	return out
}
