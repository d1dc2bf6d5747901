package variants

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// Service manages product variants. A variant always belongs to a product of the same store.
type Service interface {
	Create(ctx context.Context, storeID uint, req CreateVariantRequest) (*VariantDTO, error)
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[VariantDTO], error)
	Get(ctx context.Context, storeID, id uint) (*VariantDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateVariantRequest) (*VariantDTO, error)
	Delete(ctx context.Context, storeID, id uint) error
	Export(ctx context.Context, storeID uint) ([]byte, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("variant repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func errProductNotInStore() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "productId does not reference a product in this store")
}

func (s *service) Create(ctx context.Context, storeID uint, req CreateVariantRequest) (*VariantDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if req.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must be non-negative")
	}
	options, err := buildOptions(req.Options)
	if err != nil {
		return nil, err
	}

	var id uint
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		ok, err := repo.ProductExists(ctx, storeID, req.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return errProductNotInStore()
		}
		v := &models.ProductVariant{
			StoreID:       storeID,
			ProductID:     req.ProductID,
			Name:          name,
			SKU:           optional(req.SKU),
			Price:         req.Price.Round(2),
			StockQuantity: req.StockQuantity,
			ImageURL:      optional(req.ImageURL),
		}
		if err := repo.Create(ctx, v); err != nil {
			return err
		}
		id = v.ID
		return repo.ReplaceOptions(ctx, v.ID, withVariant(options, v.ID))
	})
	if err != nil {
		return nil, db.Translate(err, "variant")
	}
	return s.Get(ctx, storeID, id)
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[VariantDTO], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q, params)
	if err != nil {
		return pagination.Page[VariantDTO]{}, db.Translate(err, "variant")
	}
	items := make([]VariantDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*VariantDTO, error) {
	v, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "variant")
	}
	return FromModel(v), nil
}

func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateVariantRequest) (*VariantDTO, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.SKU != nil {
		fields["sku"] = optional(req.SKU)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		fields["price"] = req.Price.Round(2)
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must be non-negative")
		}
		fields["stock_quantity"] = *req.StockQuantity
	}
	if req.ImageURL != nil {
		fields["image_url"] = optional(req.ImageURL)
	}
	var options []models.ProductVariantOption
	if req.Options != nil {
		var err error
		if options, err = buildOptions(*req.Options); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, storeID, id, fields); err != nil {
			return err
		}
		if req.Options == nil {
			return nil
		}
		return repo.ReplaceOptions(ctx, id, withVariant(options, id))
	})
	if err != nil {
		return nil, db.Translate(err, "variant")
	}
	return s.Get(ctx, storeID, id)
}

func (s *service) Delete(ctx context.Context, storeID, id uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, storeID, id)
	})
	return db.Translate(err, "variant")
}

func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "variant")
	}

	table := export.Table{Headers: []string{"ID", "Product", "Name", "SKU", "Price", "Stock Quantity", "Options", "Image URL", "Created At"}}
	for _, v := range rows {
		product := ""
		if v.Product != nil {
			product = v.Product.Name
		}
		opts := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			opts = append(opts, o.Name+": "+o.Value)
		}
		table.Append(
			strconv.FormatUint(uint64(v.ID), 10),
			product,
			v.Name,
			export.Str(v.SKU),
			v.Price.StringFixed(2),
			strconv.Itoa(v.StockQuantity),
			export.JoinList(opts),
			export.Str(v.ImageURL),
			v.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
}

func buildOptions(inputs []OptionInput) ([]models.ProductVariantOption, error) {
	out := make([]models.ProductVariantOption, 0, len(inputs))
	for i, in := range inputs {
		name, value := strings.TrimSpace(in.Name), strings.TrimSpace(in.Value)
		if name == "" || value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("options[%d] requires name and value", i))
		}
		out = append(out, models.ProductVariantOption{Name: name, Value: value})
	}
	return out, nil
}

func withVariant(rows []models.ProductVariantOption, variantID uint) []models.ProductVariantOption {
	for i := range rows {
		rows[i].VariantID = variantID
	}
	return rows
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
