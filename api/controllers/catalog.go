package controllers

import (
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/internal/brands"
	"github.com/angelmondragon/shopdesk-backend/internal/categories"
	product "github.com/angelmondragon/shopdesk-backend/internal/products"
	"github.com/angelmondragon/shopdesk-backend/internal/variants"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// Categories

func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, func(r *http.Request) (categories.ListQuery, error) {
		return categories.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r)}, nil
	}, svc.List)
}

func CategoryCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.Create)
}

func CategoryGet(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func CategoryUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func CategoryDelete(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "category", svc.Delete)
}

func CategoryExport(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "categories", svc.Export)
}

// Brands

func BrandList(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, func(r *http.Request) (brands.ListQuery, error) {
		return brands.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r)}, nil
	}, svc.List)
}

func BrandCreate(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.Create)
}

func BrandGet(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func BrandUpdate(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func BrandDelete(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "brand", svc.Delete)
}

func BrandExport(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "brands", svc.Export)
}

// Products

// ProductList supports page, pageSize (or limit), search, categoryId and
// sort=highest|lowest.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, parseProductQuery, svc.ListProducts)
}

func parseProductQuery(r *http.Request) (product.ListProductsInput, error) {
	categoryID, err := validators.ParseQueryUint(r, "categoryId")
	if err != nil {
		return product.ListProductsInput{}, err
	}
	sort, err := enums.ParseProductSort(r.URL.Query().Get("sort"))
	if err != nil {
		return product.ListProductsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sort must be highest or lowest")
	}
	return product.ListProductsInput{
		Pagination: validators.PageParams(r),
		Search:     validators.SearchParam(r),
		CategoryID: categoryID,
		Sort:       sort,
	}, nil
}

func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.CreateProduct)
}

func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.GetProduct)
}

func ProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.UpdateProduct)
}

func ProductAdjustStock(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.AdjustStock)
}

func ProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "product", svc.DeleteProduct)
}

func ProductExport(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "products", svc.ExportProducts)
}

// Variants

func VariantList(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, func(r *http.Request) (variants.ListQuery, error) {
		productID, err := validators.ParseQueryUint(r, "productId")
		if err != nil {
			return variants.ListQuery{}, err
		}
		return variants.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r), ProductID: productID}, nil
	}, svc.List)
}

func VariantCreate(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.Create)
}

func VariantGet(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func VariantUpdate(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func VariantDelete(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "variant", svc.Delete)
}

func VariantExport(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "product-variants", svc.Export)
}
