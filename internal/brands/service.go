package brands

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

type Service interface {
	Create(ctx context.Context, storeID uint, req CreateBrandRequest) (*BrandDTO, error)
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[BrandDTO], error)
	Get(ctx context.Context, storeID, id uint) (*BrandDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateBrandRequest) (*BrandDTO, error)
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
		return nil, fmt.Errorf("brand repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, storeID uint, req CreateBrandRequest) (*BrandDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	b := &models.Brand{
		StoreID:     storeID,
		Name:        name,
		Description: req.Description,
		LogoURL:     optional(req.LogoURL),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, db.Translate(err, "brand")
	}
	return FromModel(b), nil
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[BrandDTO], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q.Search, params)
	if err != nil {
		return pagination.Page[BrandDTO]{}, db.Translate(err, "brand")
	}
	items := make([]BrandDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*BrandDTO, error) {
	b, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "brand")
	}
	return FromModel(b), nil
}

func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateBrandRequest) (*BrandDTO, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.LogoURL != nil {
		fields["logo_url"] = optional(req.LogoURL)
	}

	if _, err := s.repo.FindByID(ctx, storeID, id); err != nil {
		return nil, db.Translate(err, "brand")
	}
	if err := s.repo.UpdateFields(ctx, storeID, id, fields); err != nil {
		return nil, db.Translate(err, "brand")
	}
	return s.Get(ctx, storeID, id)
}

// Delete leaves products in place with no brand.
func (s *service) Delete(ctx context.Context, storeID, id uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, storeID, id)
	})
	return db.Translate(err, "brand")
}

func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "brand")
	}
	counts, err := s.repo.ProductCounts(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "brand")
	}

	table := export.Table{Headers: []string{"ID", "Name", "Description", "Logo URL", "Product Count", "Created At"}}
	for _, b := range rows {
		table.Append(
			strconv.FormatUint(uint64(b.ID), 10),
			b.Name,
			export.Str(b.Description),
			export.Str(b.LogoURL),
			strconv.FormatInt(counts[b.ID], 10),
			b.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
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
