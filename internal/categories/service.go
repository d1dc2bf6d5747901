package categories

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

// Service manages a store's categories.
type Service interface {
	Create(ctx context.Context, storeID uint, req CreateCategoryRequest) (*CategoryDTO, error)
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[CategoryDTO], error)
	Get(ctx context.Context, storeID, id uint) (*CategoryDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateCategoryRequest) (*CategoryDTO, error)
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
		return nil, fmt.Errorf("category repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, storeID uint, req CreateCategoryRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	c := &models.Category{
		StoreID:     storeID,
		Name:        name,
		Description: req.Description,
		Image:       trimmed(req.Image),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, db.Translate(err, "category")
	}
	return FromModel(c), nil
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[CategoryDTO], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q.Search, params)
	if err != nil {
		return pagination.Page[CategoryDTO]{}, db.Translate(err, "category")
	}
	items := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*CategoryDTO, error) {
	c, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	return FromModel(c), nil
}

func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateCategoryRequest) (*CategoryDTO, error) {
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
	if req.Image != nil {
		if v := strings.TrimSpace(*req.Image); v != "" {
			fields["image"] = v
		} else {
			fields["image"] = nil
		}
	}

	if _, err := s.repo.FindByID(ctx, storeID, id); err != nil {
		return nil, db.Translate(err, "category")
	}
	if err := s.repo.UpdateFields(ctx, storeID, id, fields); err != nil {
		return nil, db.Translate(err, "category")
	}
	return s.Get(ctx, storeID, id)
}

// Delete unlinks the category from every product, then removes it.
func (s *service) Delete(ctx context.Context, storeID, id uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, storeID, id)
	})
	return db.Translate(err, "category")
}

func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	names, err := s.repo.ProductNames(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "category")
	}

	table := export.Table{Headers: []string{"ID", "Name", "Description", "Image", "Products", "Created At"}}
	for _, c := range rows {
		table.Append(
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			export.Str(c.Description),
			export.Str(c.Image),
			export.JoinList(names[c.ID]),
			c.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
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
