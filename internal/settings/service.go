package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

const (
	defaultCurrency    = "USD"
	defaultTimezone    = "UTC"
	defaultOrderPrefix = "#"
	defaultWeightUnit  = "kg"
)

// Service manages the per-store shipping, general and location settings.
type Service interface {
	GetShipping(ctx context.Context, storeID uint) (*ShippingDTO, error)
	SaveShipping(ctx context.Context, storeID uint, req ShippingRequest) (*ShippingDTO, error)

	ListShippingMethods(ctx context.Context, storeID uint) ([]ShippingMethodDTO, error)
	CreateShippingMethod(ctx context.Context, storeID uint, req ShippingMethodRequest) (*ShippingMethodDTO, error)
	DeleteShippingMethod(ctx context.Context, storeID, id uint) error

	GetGeneral(ctx context.Context, storeID uint) (*GeneralDTO, error)
	SaveGeneral(ctx context.Context, storeID uint, req GeneralRequest) (*GeneralDTO, error)

	ListLocations(ctx context.Context, storeID uint) ([]LocationDTO, error)
	CreateLocation(ctx context.Context, storeID uint, req LocationRequest) (*LocationDTO, error)
	DeleteLocation(ctx context.Context, storeID, id uint) error

	// Public is the read used by the storefront.
	Public(ctx context.Context, storeID uint) (*PublicSettings, error)
}

// PublicSettings is the storefront projection. Missing rows are nil.
type PublicSettings struct {
	Shipping        *ShippingDTO
	ShippingMethods []ShippingMethodDTO
	General         *GeneralDTO
	Location        *LocationDTO
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the settings service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) GetShipping(ctx context.Context, storeID uint) (*ShippingDTO, error) {
	cfg, err := s.repo.FindShipping(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "shipping settings")
	}
	return shippingFromModel(cfg), nil
}

func (s *service) SaveShipping(ctx context.Context, storeID uint, req ShippingRequest) (*ShippingDTO, error) {
	if req.FlatRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flatRate cannot be negative")
	}
	cfg := &models.ShippingConfig{
		StoreID:   storeID,
		Enabled:   req.Enabled,
		FlatRate:  req.FlatRate.Round(2),
		Currency:  normalizeCurrency(req.Currency),
		UpdatedAt: s.now().UTC(),
	}
	if req.FreeShippingThreshold != nil {
		if req.FreeShippingThreshold.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "freeShippingThreshold cannot be negative")
		}
		cfg.FreeShippingThreshold = decimal.NewNullDecimal(req.FreeShippingThreshold.Round(2))
	}
	if err := s.repo.SaveShipping(ctx, cfg); err != nil {
		return nil, db.Translate(err, "shipping settings")
	}
	return s.GetShipping(ctx, storeID)
}

func (s *service) ListShippingMethods(ctx context.Context, storeID uint) ([]ShippingMethodDTO, error) {
	methods, err := s.repo.ListShippingMethods(ctx, storeID, false)
	if err != nil {
		return nil, db.Translate(err, "shipping method")
	}
	return methodsToDTO(methods), nil
}

func (s *service) CreateShippingMethod(ctx context.Context, storeID uint, req ShippingMethodRequest) (*ShippingMethodDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	method := &models.ShippingMethod{
		StoreID:       storeID,
		Name:          name,
		Price:         req.Price.Round(2),
		EstimatedDays: req.EstimatedDays,
		IsActive:      active,
	}
	if err := s.repo.CreateShippingMethod(ctx, method); err != nil {
		return nil, db.Translate(err, "shipping method")
	}
	dto := methodFromModel(*method)
	return &dto, nil
}

func (s *service) DeleteShippingMethod(ctx context.Context, storeID, id uint) error {
	return db.Translate(s.repo.DeleteShippingMethod(ctx, storeID, id), "shipping method")
}

func (s *service) GetGeneral(ctx context.Context, storeID uint) (*GeneralDTO, error) {
	settings, err := s.repo.FindGeneral(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return generalFromModel(defaultGeneral(storeID)), nil
		}
		return nil, db.Translate(err, "settings")
	}
	return generalFromModel(settings), nil
}

// SaveGeneral merges the provided fields over the current (or default) row.
func (s *service) SaveGeneral(ctx context.Context, storeID uint, req GeneralRequest) (*GeneralDTO, error) {
	current, err := s.repo.FindGeneral(ctx, storeID)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, db.Translate(err, "settings")
		}
		current = defaultGeneral(storeID)
	}

	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if _, err := time.LoadLocation(tz); tz == "" || err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "timezone is not a valid IANA zone")
		}
		current.Timezone = tz
	}
	if req.SupportEmail != nil {
		current.SupportEmail = emptyToNil(*req.SupportEmail)
	}
	if req.SupportPhone != nil {
		current.SupportPhone = emptyToNil(*req.SupportPhone)
	}
	if req.OrderPrefix != nil {
		current.OrderPrefix = strings.TrimSpace(*req.OrderPrefix)
	}
	if req.WeightUnit != nil {
		current.WeightUnit = strings.ToLower(strings.TrimSpace(*req.WeightUnit))
	}
	current.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveGeneral(ctx, current); err != nil {
		return nil, db.Translate(err, "settings")
	}
	return s.GetGeneral(ctx, storeID)
}

func (s *service) ListLocations(ctx context.Context, storeID uint) ([]LocationDTO, error) {
	locations, err := s.repo.ListLocations(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "location")
	}
	out := make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		out = append(out, locationFromModel(loc))
	}
	return out, nil
}

// CreateLocation keeps at most one primary location per store. The first
// location a store adds becomes primary.
func (s *service) CreateLocation(ctx context.Context, storeID uint, req LocationRequest) (*LocationDTO, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	country := strings.TrimSpace(req.Country)
	if name == "" || address == "" || country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, address and country are required")
	}

	loc := &models.Location{
		StoreID:   storeID,
		Name:      name,
		Address:   address,
		City:      req.City,
		Country:   country,
		IsPrimary: req.IsPrimary,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, err := repo.CountLocations(ctx, storeID)
		if err != nil {
			return err
		}
		if count == 0 {
			loc.IsPrimary = true
		}
		if loc.IsPrimary {
			if err := repo.ClearPrimary(ctx, storeID); err != nil {
				return err
			}
		}
		return repo.CreateLocation(ctx, loc)
	})
	if err != nil {
		return nil, db.Translate(err, "location")
	}
	dto := locationFromModel(*loc)
	return &dto, nil
}

func (s *service) DeleteLocation(ctx context.Context, storeID, id uint) error {
	return db.Translate(s.repo.DeleteLocation(ctx, storeID, id), "location")
}

// Public loads each storefront block independently. A failing block is left
// empty and its error is combined into the returned error, so callers can
// still render what did load.
func (s *service) Public(ctx context.Context, storeID uint) (*PublicSettings, error) {
	out := &PublicSettings{ShippingMethods: []ShippingMethodDTO{}}
	var errs error

	if shipping, err := s.repo.FindShipping(ctx, storeID); err == nil {
		out.Shipping = shippingFromModel(shipping)
	} else if !db.IsNotFound(err) {
		errs = multierr.Append(errs, fmt.Errorf("shipping: %w", err))
	}

	if methods, err := s.repo.ListShippingMethods(ctx, storeID, true); err == nil {
		out.ShippingMethods = methodsToDTO(methods)
	} else {
		errs = multierr.Append(errs, fmt.Errorf("shipping methods: %w", err))
	}

	if general, err := s.repo.FindGeneral(ctx, storeID); err == nil {
		out.General = generalFromModel(general)
	} else if !db.IsNotFound(err) {
		errs = multierr.Append(errs, fmt.Errorf("settings: %w", err))
	}

	if loc, err := s.repo.FindPrimaryLocation(ctx, storeID); err == nil {
		dto := locationFromModel(*loc)
		out.Location = &dto
	} else if !db.IsNotFound(err) {
		errs = multierr.Append(errs, fmt.Errorf("location: %w", err))
	}

	return out, errs
}

func methodsToDTO(methods []models.ShippingMethod) []ShippingMethodDTO {
	out := make([]ShippingMethodDTO, 0, len(methods))
	for _, m := range methods {
		out = append(out, methodFromModel(m))
	}
	return out
}

func defaultGeneral(storeID uint) *models.StoreSettings {
	return &models.StoreSettings{
		StoreID:     storeID,
		Timezone:    defaultTimezone,
		OrderPrefix: defaultOrderPrefix,
		WeightUnit:  defaultWeightUnit,
	}
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency
	}
	return code
}

func emptyToNil(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
