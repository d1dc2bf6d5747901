package stores

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

type stubUploader struct {
	folder string
	err    error
}

func (s *stubUploader) Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.folder = folder
	return &storage.StoredFile{URL: "https://cdn.test/" + folder + "/logo.png", FileName: file.Name}, nil
}

type failingSettings struct{}

func (failingSettings) Public(ctx context.Context, storeID uint) (*settings.PublicSettings, error) {
	return &settings.PublicSettings{ShippingMethods: []settings.ShippingMethodDTO{}}, errors.New("settings table missing")
}

type fixture struct {
	svc      Service
	conn     *gorm.DB
	uploader *stubUploader
	settings settings.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	settingsSvc, err := settings.NewService(settings.NewRepository(conn), client)
	require.NoError(t, err)
	uploader := &stubUploader{}
	svc, err := NewService(NewRepository(conn), settingsSvc, uploader, testLogger())
	require.NoError(t, err)
	return fixture{svc: svc, conn: conn, uploader: uploader, settings: settingsSvc}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func seedUser(t *testing.T, conn *gorm.DB, email string) uint {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", FirstName: "A", LastName: "B", IsVerified: true}
	require.NoError(t, conn.Create(&user).Error)
	return user.ID
}

func setupReq(slug string) SetupStoreRequest {
	return SetupStoreRequest{StoreName: "Test Store", StoreURL: slug, Country: "Nigeria"}
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	return typed.Code()
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, failingSettings{}, &stubUploader{}, testLogger())
	require.Error(t, err)
	_, err = NewService(NewRepository(nil), nil, &stubUploader{}, testLogger())
	require.Error(t, err)
}

func TestValidateStoreURL(t *testing.T) {
	valid := []string{"test-store", "abc", "a1b", strings.Repeat("a", 63)}
	invalid := []string{"ab", "Test_Store", "-abc", "abc-", "ab c", "TEST", strings.Repeat("a", 64), ""}

	for _, slug := range valid {
		assert.NoError(t, ValidateStoreURL(slug), slug)
	}
	for _, slug := range invalid {
		assert.Error(t, ValidateStoreURL(slug), slug)
	}
}

func TestSetupCreatesStoreWithDefaults(t *testing.T) {
	f := newFixture(t)
	userID := seedUser(t, f.conn, "owner@shop.test")

	store, err := f.svc.Setup(context.Background(), userID, setupReq("test-store"), nil)
	require.NoError(t, err)
	assert.Equal(t, "test-store", store.StoreURL)
	assert.Equal(t, "USD", store.Currency)
	assert.False(t, store.IsLaunched)
	assert.Nil(t, store.LogoURL)

	req := setupReq("other-store")
	req.Currency = "eur"
	other := seedUser(t, f.conn, "second@shop.test")
	store, err = f.svc.Setup(context.Background(), other, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "EUR", store.Currency)
}

func TestSetupRejectsSecondStoreForUser(t *testing.T) {
	f := newFixture(t)
	userID := seedUser(t, f.conn, "owner@shop.test")

	_, err := f.svc.Setup(context.Background(), userID, setupReq("first-store"), nil)
	require.NoError(t, err)

	_, err = f.svc.Setup(context.Background(), userID, setupReq("second-store"), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(t, err))
	assert.Equal(t, "user already has a store", pkgerrors.As(err).Message())

	_, err = f.svc.Setup(context.Background(), userID, setupReq("bad"), nil)
	assert.Equal(t, "user already has a store", pkgerrors.As(err).Message())
}

func TestSetupValidatesSlugAndUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := seedUser(t, f.conn, "a@shop.test")
	second := seedUser(t, f.conn, "b@shop.test")

	_, err := f.svc.Setup(ctx, first, setupReq("ab"), nil)
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
	_, err = f.svc.Setup(ctx, first, setupReq("Test_Store"), nil)
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	_, err = f.svc.Setup(ctx, first, setupReq("taken-url"), nil)
	require.NoError(t, err)
	_, err = f.svc.Setup(ctx, second, setupReq("taken-url"), nil)
	require.Error(t, err)
	assert.Equal(t, "store url is already taken", pkgerrors.As(err).Message())
}

func TestSetupMissingUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Setup(context.Background(), 404, setupReq("ghost-store"), nil)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestSetupUploadsLogo(t *testing.T) {
	f := newFixture(t)
	userID := seedUser(t, f.conn, "owner@shop.test")

	logo := &storage.File{Name: "logo.png", Body: strings.NewReader("png")}
	store, err := f.svc.Setup(context.Background(), userID, setupReq("logo-store"), logo)
	require.NoError(t, err)
	require.NotNil(t, store.LogoURL)
	assert.Equal(t, "stores/logo-store/logo", f.uploader.folder)
	assert.Contains(t, *store.LogoURL, "logo-store")
}

func TestSetupLogoFailureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	userID := seedUser(t, f.conn, "owner@shop.test")
	f.uploader.err = pkgerrors.New(pkgerrors.CodeUpstream, "upload failed")

	_, err := f.svc.Setup(context.Background(), userID, setupReq("logo-store"), &storage.File{Name: "a.png", Body: strings.NewReader("x")})
	assert.Equal(t, pkgerrors.CodeUpstream, codeOf(t, err))

	_, err = f.svc.Get(context.Background(), userID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestUpdateIsSparse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.conn, "owner@shop.test")
	_, err := f.svc.Setup(ctx, userID, setupReq("sparse-store"), nil)
	require.NoError(t, err)

	phone := "+234 800"
	currency := "ngn"
	store, err := f.svc.Update(ctx, userID, UpdateStoreRequest{Phone: &phone, Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, "Test Store", store.StoreName)
	assert.Equal(t, "NGN", store.Currency)
	require.NotNil(t, store.Phone)
	assert.Equal(t, phone, *store.Phone)

	blank := "   "
	_, err = f.svc.Update(ctx, userID, UpdateStoreRequest{StoreName: &blank})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
	_, err = f.svc.Update(ctx, userID, UpdateStoreRequest{Country: &blank})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
	_, err = f.svc.Update(ctx, userID, UpdateStoreRequest{Currency: &blank})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
}

func TestGetWithoutStore(t *testing.T) {
	f := newFixture(t)
	userID := seedUser(t, f.conn, "owner@shop.test")

	_, err := f.svc.Get(context.Background(), userID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	summary, err := f.svc.SummaryForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestLaunchIsOneWay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.conn, "owner@shop.test")
	_, err := f.svc.Setup(ctx, userID, setupReq("launch-store"), nil)
	require.NoError(t, err)

	store, err := f.svc.Launch(ctx, userID)
	require.NoError(t, err)
	assert.True(t, store.IsLaunched)
	assert.NotNil(t, store.LaunchedAt)

	_, err = f.svc.Launch(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, "store is already launched", pkgerrors.As(err).Message())
}

func TestStorefrontRequiresLaunch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.conn, "owner@shop.test")
	_, err := f.svc.Setup(ctx, userID, setupReq("front-store"), nil)
	require.NoError(t, err)

	_, err = f.svc.Storefront(ctx, "front-store")
	assert.Equal(t, pkgerrors.CodeForbidden, codeOf(t, err))

	_, err = f.svc.Storefront(ctx, "missing-store")
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	id, err := f.svc.ResolveByURL(ctx, "FRONT-STORE")
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestStorefrontAggregatesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.conn, "owner@shop.test")
	store, err := f.svc.Setup(ctx, userID, setupReq("front-store"), nil)
	require.NoError(t, err)
	_, err = f.svc.Launch(ctx, userID)
	require.NoError(t, err)

	category := models.Category{StoreID: store.ID, Name: "Shoes"}
	require.NoError(t, f.conn.Create(&category).Error)
	require.NoError(t, f.conn.Create(&models.Brand{StoreID: store.ID, Name: "Acme"}).Error)

	visible := models.Product{
		StoreID: store.ID, Name: "Runner", Type: enums.ProductTypeRegular,
		Pricings: []models.ProductPricing{{CurrencyCode: "USD", SellingPrice: decimal.NewFromInt(40)}},
	}
	hidden := models.Product{StoreID: store.ID, Name: "Secret", Type: enums.ProductTypeRegular, HideFromHomepage: true}
	require.NoError(t, f.conn.Create(&visible).Error)
	require.NoError(t, f.conn.Create(&hidden).Error)
	require.NoError(t, f.conn.Create(&models.ProductCategory{ProductID: visible.ID, CategoryID: category.ID}).Error)
	require.NoError(t, f.conn.Create(&models.ProductCategory{ProductID: hidden.ID, CategoryID: category.ID}).Error)

	_, err = f.settings.CreateLocation(ctx, store.ID, settings.LocationRequest{Name: "HQ", Address: "1 Main", Country: "NG"})
	require.NoError(t, err)

	front, err := f.svc.Storefront(ctx, "Front-Store")
	require.NoError(t, err)
	assert.Equal(t, "front-store", front.Store.StoreURL)
	require.Len(t, front.Products, 1)
	assert.Equal(t, "Runner", front.Products[0].Name)
	require.Len(t, front.Products[0].Pricings, 1)
	require.Len(t, front.Categories, 1)
	require.Len(t, front.Categories[0].Products, 1)
	assert.Equal(t, visible.ID, front.Categories[0].Products[0].ID)
	require.Len(t, front.Brands, 1)
	assert.Nil(t, front.Shipping)
	assert.Empty(t, front.ShippingMethods)
	require.NotNil(t, front.Location)
	assert.Equal(t, "HQ", front.Location.Name)
}

func TestStorefrontSettingsFailureDegrades(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), failingSettings{}, &stubUploader{}, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	userID := seedUser(t, conn, "owner@shop.test")
	_, err = svc.Setup(ctx, userID, setupReq("degraded"), nil)
	require.NoError(t, err)
	_, err = svc.Launch(ctx, userID)
	require.NoError(t, err)

	front, err := svc.Storefront(ctx, "degraded")
	require.NoError(t, err)
	assert.Nil(t, front.Shipping)
	assert.Nil(t, front.Settings)
	assert.Nil(t, front.Location)
	assert.NotNil(t, front.ShippingMethods)
	assert.NotNil(t, front.Products)
}
