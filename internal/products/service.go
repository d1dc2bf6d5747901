package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/shopdesk-backend/pkg/db/types"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// Service exposes store product management operations.
type Service interface {
	CreateProduct(ctx context.Context, storeID uint, input CreateProductRequest) (*ProductDTO, error)
	GetProduct(ctx context.Context, storeID, productID uint) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, storeID, productID uint, input UpdateProductRequest) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, storeID, productID uint) error
	ListProducts(ctx context.Context, storeID uint, input ListProductsInput) (pagination.Page[ProductDTO], error)
	AdjustStock(ctx context.Context, storeID, productID uint, input StockRequest) (*ProductDTO, error)
	ExportProducts(ctx context.Context, storeID uint) ([]byte, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// service implements the product service.
type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateProduct writes the product and all of its child collections in one
// transaction. Referenced brand, categories and linked products must belong
// to the same store.
func (s *service) CreateProduct(ctx context.Context, storeID uint, input CreateProductRequest) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	productType := input.Type
	if productType == "" {
		productType = enums.ProductTypeRegular
	}
	if !productType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product type %q", input.Type))
	}
	if err := validateStock(input.StockQuantity, input.LowStockThreshold); err != nil {
		return nil, err
	}
	pricings, err := buildPricings(input.Pricings)
	if err != nil {
		return nil, err
	}
	details, err := buildDetails(input.DescriptionDetails)
	if err != nil {
		return nil, err
	}
	options, err := buildOptions(input.Options)
	if err != nil {
		return nil, err
	}
	brandID := normalizeBrand(input.BrandID)
	categoryIDs := uniqueIDs(input.Categories)
	upsellIDs := uniqueIDs(input.UpsellProducts)
	crossSellIDs := uniqueIDs(input.CrossSellProducts)

	var created *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := ensureRefs(ctx, txRepo, storeID, brandID, &categoryIDs, &upsellIDs, &crossSellIDs); err != nil {
			return err
		}

		product := &models.Product{
			StoreID:           storeID,
			BrandID:           brandID,
			Name:              name,
			Description:       input.Description,
			SKU:               optional(input.SKU),
			Images:            cleanList(input.Images),
			Type:              productType,
			StockQuantity:     input.StockQuantity,
			LowStockThreshold: input.LowStockThreshold,
			TrackStock:        input.TrackStock,
			HideFromHomepage:  input.HideFromHomepage,
		}
		if err := txRepo.CreateProduct(ctx, product); err != nil {
			return err
		}

		if err := writeRelations(ctx, txRepo, product.ID, relationSet{
			pricings:     &pricings,
			details:      &details,
			options:      &options,
			categoryIDs:  &categoryIDs,
			upsellIDs:    &upsellIDs,
			crossSellIDs: &crossSellIDs,
		}); err != nil {
			return err
		}

		created, err = txRepo.GetProductDetail(ctx, storeID, product.ID)
		return err
	})
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return NewProductDTO(created), nil
}

func (s *service) GetProduct(ctx context.Context, storeID, productID uint) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, storeID, productID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return NewProductDTO(product), nil
}

// UpdateProduct patches scalar fields and replaces each relation present in
// the input. A product owned by another store reads as not found.
func (s *service) UpdateProduct(ctx context.Context, storeID, productID uint, input UpdateProductRequest) (*ProductDTO, error) {
	fields, err := productFields(input)
	if err != nil {
		return nil, err
	}

	rel := relationSet{}
	if input.Pricings != nil {
		pricings, err := buildPricings(*input.Pricings)
		if err != nil {
			return nil, err
		}
		rel.pricings = &pricings
	}
	if input.DescriptionDetails != nil {
		details, err := buildDetails(*input.DescriptionDetails)
		if err != nil {
			return nil, err
		}
		rel.details = &details
	}
	if input.Options != nil {
		options, err := buildOptions(*input.Options)
		if err != nil {
			return nil, err
		}
		rel.options = &options
	}
	if input.Categories != nil {
		ids := uniqueIDs(*input.Categories)
		rel.categoryIDs = &ids
	}
	if input.UpsellProducts != nil {
		ids := uniqueIDs(*input.UpsellProducts)
		if containsID(ids, productID) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product cannot be its own upsell")
		}
		rel.upsellIDs = &ids
	}
	if input.CrossSellProducts != nil {
		ids := uniqueIDs(*input.CrossSellProducts)
		if containsID(ids, productID) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product cannot be its own cross-sell")
		}
		rel.crossSellIDs = &ids
	}

	var updated *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current, err := txRepo.FindByID(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if err := validateStock(pick(input.StockQuantity, current.StockQuantity), pick(input.LowStockThreshold, current.LowStockThreshold)); err != nil {
			return err
		}

		var brandID *uint
		if input.BrandID != nil {
			brandID = normalizeBrand(input.BrandID)
			fields["brand_id"] = brandID
		}
		if err := ensureRefs(ctx, txRepo, storeID, brandID, rel.categoryIDs, rel.upsellIDs, rel.crossSellIDs); err != nil {
			return err
		}

		if err := txRepo.UpdateProductFields(ctx, storeID, productID, fields); err != nil {
			return err
		}
		if err := writeRelations(ctx, txRepo, productID, rel); err != nil {
			return err
		}

		updated, err = txRepo.GetProductDetail(ctx, storeID, productID)
		return err
	})
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product with its children and every link to it.
func (s *service) DeleteProduct(ctx context.Context, storeID, productID uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindByID(ctx, storeID, productID); err != nil {
			return err
		}
		return txRepo.DeleteProduct(ctx, storeID, productID)
	})
	return db.Translate(err, "product")
}

func (s *service) ListProducts(ctx context.Context, storeID uint, input ListProductsInput) (pagination.Page[ProductDTO], error) {
	input.Pagination = input.Pagination.Normalize()
	rows, total, err := s.repo.ListProducts(ctx, storeID, input)
	if err != nil {
		return pagination.Page[ProductDTO]{}, db.Translate(err, "product")
	}
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewProductDTO(&rows[i]))
	}
	return pagination.NewPage(items, input.Pagination, total), nil
}

// AdjustStock sets the on-hand quantity and turns stock tracking on.
func (s *service) AdjustStock(ctx context.Context, storeID, productID uint, input StockRequest) (*ProductDTO, error) {
	if input.Quantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}
	threshold := 0
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}
	if err := validateStock(*input.Quantity, threshold); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"stock_quantity": *input.Quantity,
		"track_stock":    true,
	}
	if input.LowStockThreshold != nil {
		fields["low_stock_threshold"] = *input.LowStockThreshold
	}
	if err := s.repo.UpdateProductFields(ctx, storeID, productID, fields); err != nil {
		return nil, db.Translate(err, "product")
	}
	return s.GetProduct(ctx, storeID, productID)
}

type relationSet struct {
	pricings     *[]models.ProductPricing
	details      *[]models.ProductDescriptionDetail
	options      *[]models.ProductOption
	categoryIDs  *[]uint
	upsellIDs    *[]uint
	crossSellIDs *[]uint
}

func writeRelations(ctx context.Context, repo *Repository, productID uint, rel relationSet) error {
	if rel.pricings != nil {
		rows := *rel.pricings
		for i := range rows {
			rows[i].ProductID = productID
		}
		if err := repo.ReplacePricings(ctx, productID, rows); err != nil {
			return err
		}
	}
	if rel.details != nil {
		rows := *rel.details
		for i := range rows {
			rows[i].ProductID = productID
		}
		if err := repo.ReplaceDescriptionDetails(ctx, productID, rows); err != nil {
			return err
		}
	}
	if rel.options != nil {
		rows := *rel.options
		for i := range rows {
			rows[i].ProductID = productID
		}
		if err := repo.ReplaceOptions(ctx, productID, rows); err != nil {
			return err
		}
	}
	if rel.categoryIDs != nil {
		rows := make([]models.ProductCategory, 0, len(*rel.categoryIDs))
		for _, id := range *rel.categoryIDs {
			rows = append(rows, models.ProductCategory{ProductID: productID, CategoryID: id})
		}
		if err := repo.ReplaceCategories(ctx, productID, rows); err != nil {
			return err
		}
	}
	if rel.upsellIDs != nil {
		rows := make([]models.ProductUpsell, 0, len(*rel.upsellIDs))
		for _, id := range *rel.upsellIDs {
			rows = append(rows, models.ProductUpsell{ProductID: productID, UpsellProductID: id})
		}
		if err := repo.ReplaceUpsells(ctx, productID, rows); err != nil {
			return err
		}
	}
	if rel.crossSellIDs != nil {
		rows := make([]models.ProductCrossSell, 0, len(*rel.crossSellIDs))
		for _, id := range *rel.crossSellIDs {
			rows = append(rows, models.ProductCrossSell{ProductID: productID, CrossSellProductID: id})
		}
		if err := repo.ReplaceCrossSells(ctx, productID, rows); err != nil {
			return err
		}
	}
	return nil
}

// ensureRefs rejects the write when any referenced id is missing or owned by
// another store. Nil slices are skipped.
func ensureRefs(ctx context.Context, repo *Repository, storeID uint, brandID *uint, categoryIDs, upsellIDs, crossSellIDs *[]uint) error {
	if brandID != nil {
		if err := ensureOwned(ctx, repo, "brands", storeID, []uint{*brandID}, "brandId does not reference a brand in this store"); err != nil {
			return err
		}
	}
	if categoryIDs != nil {
		if err := ensureOwned(ctx, repo, "categories", storeID, *categoryIDs, "one or more categories do not exist in this store"); err != nil {
			return err
		}
	}
	if upsellIDs != nil {
		if err := ensureOwned(ctx, repo, "products", storeID, *upsellIDs, "one or more upsell products do not exist in this store"); err != nil {
			return err
		}
	}
	if crossSellIDs != nil {
		if err := ensureOwned(ctx, repo, "products", storeID, *crossSellIDs, "one or more cross-sell products do not exist in this store"); err != nil {
			return err
		}
	}
	return nil
}

func ensureOwned(ctx context.Context, repo *Repository, table string, storeID uint, ids []uint, message string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := repo.CountOwned(ctx, table, storeID, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"ids": ids})
	}
	return nil
}

func productFields(input UpdateProductRequest) (map[string]any, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.SKU != nil {
		fields["sku"] = optional(input.SKU)
	}
	if input.Images != nil {
		fields["images"] = cleanList(*input.Images)
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product type %q", *input.Type))
		}
		fields["type"] = *input.Type
	}
	if input.StockQuantity != nil {
		fields["stock_quantity"] = *input.StockQuantity
	}
	if input.LowStockThreshold != nil {
		fields["low_stock_threshold"] = *input.LowStockThreshold
	}
	if input.TrackStock != nil {
		fields["track_stock"] = *input.TrackStock
	}
	if input.HideFromHomepage != nil {
		fields["hide_from_homepage"] = *input.HideFromHomepage
	}
	return fields, nil
}

func buildPricings(inputs []PricingInput) ([]models.ProductPricing, error) {
	rows := make([]models.ProductPricing, 0, len(inputs))
	for i, in := range inputs {
		code := strings.ToUpper(strings.TrimSpace(in.CurrencyCode))
		if len(code) != 3 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pricings[%d].currencyCode must be a 3-letter code", i))
		}
		if in.SellingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pricings[%d].sellingPrice must be non-negative", i))
		}
		row := models.ProductPricing{CurrencyCode: code, SellingPrice: in.SellingPrice.Round(2)}
		if in.OriginalPrice != nil {
			if in.OriginalPrice.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pricings[%d].originalPrice must be non-negative", i))
			}
			row.OriginalPrice = decimal.NewNullDecimal(in.OriginalPrice.Round(2))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildDetails(inputs []DescriptionDetail) ([]models.ProductDescriptionDetail, error) {
	rows := make([]models.ProductDescriptionDetail, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("descriptionDetails[%d].title is required", i))
		}
		rows = append(rows, models.ProductDescriptionDetail{Title: title, Body: in.Body})
	}
	return rows, nil
}

func buildOptions(inputs []OptionDTO) ([]models.ProductOption, error) {
	rows := make([]models.ProductOption, 0, len(inputs))
	for i, in := range inputs {
		optionType := strings.TrimSpace(in.OptionType)
		if optionType == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("options[%d].optionType is required", i))
		}
		rows = append(rows, models.ProductOption{OptionType: optionType, Values: cleanList(in.Values)})
	}
	return rows, nil
}

func validateStock(quantity, threshold int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must be non-negative")
	}
	if threshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "lowStockThreshold must be non-negative")
	}
	return nil
}

// normalizeBrand treats brand id 0 as "no brand".
func normalizeBrand(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func cleanList(values []string) dbtypes.StringList {
	out := make(dbtypes.StringList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
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

func pick(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
