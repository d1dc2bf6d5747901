package stores

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

const defaultCurrency = "USD"

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Service exposes the store lifecycle and the public storefront read.
type Service interface {
	Setup(ctx context.Context, userID uint, req SetupStoreRequest, logo *storage.File) (*StoreDTO, error)
	Get(ctx context.Context, userID uint) (*StoreDTO, error)
	Update(ctx context.Context, userID uint, req UpdateStoreRequest) (*StoreDTO, error)
	Launch(ctx context.Context, userID uint) (*StoreDTO, error)
	Storefront(ctx context.Context, storeURL string) (*StorefrontDTO, error)

	// SummaryForUser returns nil without error when the user has no store.
	SummaryForUser(ctx context.Context, userID uint) (*Summary, error)
	StoreIDForUser(ctx context.Context, userID uint) (uint, error)
	// ResolveByURL finds a store for customer routes; launch state is not checked.
	ResolveByURL(ctx context.Context, storeURL string) (uint, error)
}

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByUserID(ctx context.Context, userID uint) (*models.Store, error)
	FindByURL(ctx context.Context, storeURL string) (*models.Store, error)
	URLTaken(ctx context.Context, storeURL string, exceptID uint) (bool, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	ListVisibleProducts(ctx context.Context, storeID uint) ([]models.Product, error)
	ListCategories(ctx context.Context, storeID uint) ([]models.Category, error)
	ListCategoryLinks(ctx context.Context, categoryIDs []uint) ([]models.ProductCategory, error)
	ListBrands(ctx context.Context, storeID uint) ([]models.Brand, error)
}

type publicSettings interface {
	Public(ctx context.Context, storeID uint) (*settings.PublicSettings, error)
}

type fileUploader interface {
	Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error)
}

type service struct {
	repo     storeRepository
	settings publicSettings
	uploader fileUploader
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the store service.
func NewService(repo storeRepository, settingsSvc publicSettings, uploader fileUploader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, settings: settingsSvc, uploader: uploader, logg: logg, now: time.Now}, nil
}

var (
	errAlreadyHasStore = pkgerrors.New(pkgerrors.CodeConflict, "user already has a store")
	errURLTaken        = pkgerrors.New(pkgerrors.CodeConflict, "store url is already taken")
	errAlreadyLaunched = pkgerrors.New(pkgerrors.CodeConflict, "store is already launched")
)

// ValidateStoreURL checks the slug shape: 3-63 chars of [a-z0-9] with internal hyphens.
func ValidateStoreURL(slug string) error {
	if len(slug) < 3 || len(slug) > 63 || !slugPattern.MatchString(slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, "storeUrl must be 3-63 lowercase letters, digits or inner hyphens")
	}
	return nil
}

func (s *service) Setup(ctx context.Context, userID uint, req SetupStoreRequest, logo *storage.File) (*StoreDTO, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, errAlreadyHasStore
	} else if !db.IsNotFound(err) {
		return nil, db.Translate(err, "store")
	}

	name := strings.TrimSpace(req.StoreName)
	country := strings.TrimSpace(req.Country)
	if name == "" || country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeName and country are required")
	}
	slug := strings.TrimSpace(req.StoreURL)
	if err := ValidateStoreURL(slug); err != nil {
		return nil, err
	}
	taken, err := s.repo.URLTaken(ctx, slug, 0)
	if err != nil {
		return nil, db.Translate(err, "store")
	}
	if taken {
		return nil, errURLTaken
	}

	store := &models.Store{
		UserID:       userID,
		StoreName:    name,
		StoreURL:     slug,
		BusinessType: trimmed(req.BusinessType),
		Country:      country,
		Currency:     normalizeCurrency(req.Currency),
		Phone:        trimmed(req.Phone),
		Email:        trimmed(req.Email),
		Address:      trimmed(req.Address),
		Description:  req.Description,
	}

	if logo != nil {
		stored, err := s.uploader.Upload(ctx, "stores/"+slug+"/logo", *logo, storage.ImageTypes)
		if err != nil {
			return nil, err
		}
		store.LogoURL = &stored.URL
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, translateWriteError(err)
	}

	ctx = s.logg.WithStoreID(ctx, store.ID)
	s.logg.Info(ctx, "store created")
	return FromModel(store), nil
}

func (s *service) Get(ctx context.Context, userID uint) (*StoreDTO, error) {
	store, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "store")
	}
	return FromModel(store), nil
}

func (s *service) Update(ctx context.Context, userID uint, req UpdateStoreRequest) (*StoreDTO, error) {
	store, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "store")
	}

	fields := map[string]any{}
	if req.StoreName != nil {
		v := strings.TrimSpace(*req.StoreName)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeName cannot be empty")
		}
		fields["store_name"] = v
	}
	if req.Country != nil {
		v := strings.TrimSpace(*req.Country)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "country cannot be empty")
		}
		fields["country"] = v
	}
	if req.Currency != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency cannot be empty")
		}
		fields["currency"] = v
	}
	if req.StoreURL != nil {
		slug := strings.TrimSpace(*req.StoreURL)
		if slug != store.StoreURL {
			if err := ValidateStoreURL(slug); err != nil {
				return nil, err
			}
			taken, err := s.repo.URLTaken(ctx, slug, store.ID)
			if err != nil {
				return nil, db.Translate(err, "store")
			}
			if taken {
				return nil, errURLTaken
			}
			fields["store_url"] = slug
		}
	}
	if req.BusinessType != nil {
		fields["business_type"] = trimmed(req.BusinessType)
	}
	if req.Phone != nil {
		fields["phone"] = trimmed(req.Phone)
	}
	if req.Email != nil {
		fields["email"] = trimmed(req.Email)
	}
	if req.Address != nil {
		fields["address"] = trimmed(req.Address)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, store.ID, fields); err != nil {
			return nil, translateWriteError(err)
		}
	}
	return s.Get(ctx, userID)
}

func (s *service) Launch(ctx context.Context, userID uint) (*StoreDTO, error) {
	store, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "store")
	}
	if store.IsLaunched {
		return nil, errAlreadyLaunched
	}
	now := s.now().UTC()
	if err := s.repo.UpdateFields(ctx, store.ID, map[string]any{"is_launched": true, "launched_at": now}); err != nil {
		return nil, db.Translate(err, "store")
	}
	return s.Get(ctx, userID)
}

func (s *service) SummaryForUser(ctx context.Context, userID uint) (*Summary, error) {
	store, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, db.Translate(err, "store")
	}
	return SummaryFromModel(store), nil
}

func (s *service) StoreIDForUser(ctx context.Context, userID uint) (uint, error) {
	store, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return 0, db.Translate(err, "store")
	}
	return store.ID, nil
}

func (s *service) ResolveByURL(ctx context.Context, storeURL string) (uint, error) {
	store, err := s.repo.FindByURL(ctx, strings.TrimSpace(storeURL))
	if err != nil {
		return 0, db.Translate(err, "store")
	}
	return store.ID, nil
}

func translateWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "user_id"):
		return errAlreadyHasStore
	case db.IsUniqueViolation(err, "store_url"):
		return errURLTaken
	}
	return db.Translate(err, "store")
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency
	}
	return code
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
