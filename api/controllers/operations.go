package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/internal/customers"
	"github.com/angelmondragon/shopdesk-backend/internal/invoices"
	"github.com/angelmondragon/shopdesk-backend/internal/suppliers"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// Suppliers

func SupplierList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, func(r *http.Request) (suppliers.ListQuery, error) {
		return suppliers.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r)}, nil
	}, svc.List)
}

func SupplierCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.Create)
}

func SupplierGet(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func SupplierUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func SupplierDelete(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "supplier", svc.Delete)
}

func SupplierExport(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "suppliers", svc.Export)
}

// Invoices

func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, parseInvoiceQuery, svc.List)
}

func parseInvoiceQuery(r *http.Request) (invoices.ListQuery, error) {
	q := invoices.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r)}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseInvoiceStatus(raw)
		if err != nil {
			return invoices.ListQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		q.Status = &status
	}
	return q, nil
}

func InvoiceCreate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.Create)
}

func InvoiceGet(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func InvoiceUpdate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func InvoiceDelete(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "invoice", svc.Delete)
}

func InvoiceExport(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "invoices", svc.Export)
}

// Customers, as seen by the store owner. Customers sign up through the
// storefront, so there is no create route here.

func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedList(logg, func(r *http.Request) (customers.ListQuery, error) {
		return customers.ListQuery{Params: validators.PageParams(r), Search: validators.SearchParam(r)}, nil
	}, svc.List)
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedGet(logg, svc.Get)
}

func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedUpdate(logg, svc.Update)
}

func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "customer", svc.Delete)
}

func CustomerExport(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedExport(logg, "customers", svc.Export)
}
