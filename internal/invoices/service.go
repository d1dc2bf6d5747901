package invoices

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// Service manages supplier invoices. Totals are always derived from the lines.
type Service interface {
	Create(ctx context.Context, storeID uint, req CreateInvoiceRequest) (*InvoiceDTO, error)
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[InvoiceDTO], error)
	Get(ctx context.Context, storeID, id uint) (*InvoiceDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateInvoiceRequest) (*InvoiceDTO, error)
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
		return nil, fmt.Errorf("invoice repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func errNumberTaken() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "invoice number is already used in this store")
}

func (s *service) Create(ctx context.Context, storeID uint, req CreateInvoiceRequest) (*InvoiceDTO, error) {
	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoiceNumber is required")
	}
	status := req.Status
	if status == "" {
		status = enums.InvoiceStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid invoice status %q", req.Status))
	}
	if err := validateDates(req.IssueDate, req.DueDate); err != nil {
		return nil, err
	}
	items, total, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	var id uint
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensureRefs(ctx, repo, storeID, normalizeID(req.SupplierID), items); err != nil {
			return err
		}
		inv := &models.Invoice{
			StoreID:       storeID,
			SupplierID:    normalizeID(req.SupplierID),
			InvoiceNumber: number,
			Status:        status,
			IssueDate:     req.IssueDate,
			DueDate:       req.DueDate,
			Notes:         req.Notes,
			Total:         total,
		}
		if err := repo.Create(ctx, inv); err != nil {
			return err
		}
		id = inv.ID
		return repo.ReplaceItems(ctx, id, withInvoice(items, id))
	})
	if err != nil {
		return nil, translateWrite(err)
	}
	return s.Get(ctx, storeID, id)
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[InvoiceDTO], error) {
	if q.Status != nil && !q.Status.IsValid() {
		return pagination.Page[InvoiceDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid invoice status %q", *q.Status))
	}
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q, params)
	if err != nil {
		return pagination.Page[InvoiceDTO]{}, db.Translate(err, "invoice")
	}
	items := make([]InvoiceDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*InvoiceDTO, error) {
	inv, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "invoice")
	}
	return FromModel(inv), nil
}

// Update applies the sparse fields and, when items are present, replaces the
// lines and recomputes the total in the same transaction.
func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateInvoiceRequest) (*InvoiceDTO, error) {
	fields := map[string]any{}
	if req.InvoiceNumber != nil {
		number := strings.TrimSpace(*req.InvoiceNumber)
		if number == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoiceNumber cannot be empty")
		}
		fields["invoice_number"] = number
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid invoice status %q", *req.Status))
		}
		fields["status"] = *req.Status
	}
	if req.IssueDate != nil {
		fields["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	var supplierID *uint
	if req.SupplierID != nil {
		supplierID = normalizeID(req.SupplierID)
		fields["supplier_id"] = supplierID
	}
	var items []models.InvoiceItem
	if req.Items != nil {
		var total decimal.Decimal
		var err error
		if items, total, err = buildItems(*req.Items); err != nil {
			return nil, err
		}
		fields["total"] = total
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		current, err := repo.FindByID(ctx, storeID, id)
		if err != nil {
			return err
		}
		issue, due := current.IssueDate, current.DueDate
		if req.IssueDate != nil {
			issue = req.IssueDate
		}
		if req.DueDate != nil {
			due = req.DueDate
		}
		if err := validateDates(issue, due); err != nil {
			return err
		}
		if err := ensureRefs(ctx, repo, storeID, supplierID, items); err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, storeID, id, fields); err != nil {
			return err
		}
		if req.Items == nil {
			return nil
		}
		return repo.ReplaceItems(ctx, id, withInvoice(items, id))
	})
	if err != nil {
		return nil, translateWrite(err)
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
	return db.Translate(err, "invoice")
}

func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "invoice")
	}

	table := export.Table{Headers: []string{"ID", "Invoice Number", "Supplier", "Status", "Issue Date", "Due Date", "Items", "Total", "Created At"}}
	for _, inv := range rows {
		supplier := ""
		if inv.Supplier != nil {
			supplier = inv.Supplier.Name
		}
		lines := make([]string, 0, len(inv.Items))
		for _, it := range inv.Items {
			lines = append(lines, fmt.Sprintf("%s x%d @ %s", it.Description, it.Quantity, it.UnitPrice.StringFixed(2)))
		}
		table.Append(
			strconv.FormatUint(uint64(inv.ID), 10),
			inv.InvoiceNumber,
			supplier,
			string(inv.Status),
			formatDate(inv.IssueDate),
			formatDate(inv.DueDate),
			export.JoinList(lines),
			inv.Total.StringFixed(2),
			inv.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
}

// buildItems validates the lines and returns them with the rounded total.
func buildItems(inputs []ItemInput) ([]models.InvoiceItem, decimal.Decimal, error) {
	total := decimal.Zero
	items := make([]models.InvoiceItem, 0, len(inputs))
	for i, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].description is required", i))
		}
		if in.Quantity <= 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].quantity must be positive", i))
		}
		if in.UnitPrice.IsNegative() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].unitPrice must be non-negative", i))
		}
		unit := in.UnitPrice.Round(2)
		line := unit.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)
		total = total.Add(line)
		items = append(items, models.InvoiceItem{
			ProductID:   normalizeID(in.ProductID),
			Description: desc,
			Quantity:    in.Quantity,
			UnitPrice:   unit,
			LineTotal:   line,
		})
	}
	return items, total.Round(2), nil
}

func ensureRefs(ctx context.Context, repo *Repository, storeID uint, supplierID *uint, items []models.InvoiceItem) error {
	if supplierID != nil {
		n, err := repo.CountOwned(ctx, "suppliers", storeID, []uint{*supplierID})
		if err != nil {
			return err
		}
		if n != 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplierId does not reference a supplier in this store")
		}
	}
	seen := map[uint]struct{}{}
	var productIDs []uint
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		if _, ok := seen[*it.ProductID]; !ok {
			seen[*it.ProductID] = struct{}{}
			productIDs = append(productIDs, *it.ProductID)
		}
	}
	if len(productIDs) == 0 {
		return nil
	}
	n, err := repo.CountOwned(ctx, "products", storeID, productIDs)
	if err != nil {
		return err
	}
	if n != int64(len(productIDs)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more items reference a product outside this store")
	}
	return nil
}

func validateDates(issue, due *time.Time) error {
	if issue != nil && due != nil && due.Before(*issue) {
		return pkgerrors.New(pkgerrors.CodeValidation, "dueDate cannot be before issueDate")
	}
	return nil
}

func translateWrite(err error) error {
	if db.IsUniqueViolation(err, "") {
		return errNumberTaken()
	}
	return db.Translate(err, "invoice")
}

func withInvoice(items []models.InvoiceItem, invoiceID uint) []models.InvoiceItem {
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	return items
}

func normalizeID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
