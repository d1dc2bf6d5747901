package customers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

// Service covers owner-side customer management and customer self-service.
type Service interface {
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[CustomerDTO], error)
	Get(ctx context.Context, storeID, id uint) (*CustomerDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateCustomerRequest) (*CustomerDTO, error)
	Delete(ctx context.Context, storeID, id uint) error
	Export(ctx context.Context, storeID uint) ([]byte, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[CustomerDTO], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q.Search, params)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, db.Translate(err, "customer")
	}
	items := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	return FromModel(customer), nil
}

func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateCustomerRequest) (*CustomerDTO, error) {
	fields := map[string]any{}
	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "firstname cannot be empty")
		}
		fields["firstname"] = v
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lastname cannot be empty")
		}
		fields["lastname"] = v
	}
	if req.Phone != nil {
		if v := strings.TrimSpace(*req.Phone); v != "" {
			fields["phone"] = v
		} else {
			fields["phone"] = nil
		}
	}
	if req.Newsletter != nil {
		fields["newsletter"] = *req.Newsletter
	}
	if req.ShippingAddress != nil {
		fields["shipping_address"] = req.ShippingAddress
	}
	if req.BillingAddress != nil {
		fields["billing_address"] = req.BillingAddress
	}

	if len(fields) == 0 {
		return s.Get(ctx, storeID, id)
	}
	if err := s.repo.UpdateFields(ctx, storeID, id, fields); err != nil {
		return nil, db.Translate(err, "customer")
	}
	return s.Get(ctx, storeID, id)
}

func (s *service) Delete(ctx context.Context, storeID, id uint) error {
	return db.Translate(s.repo.Delete(ctx, storeID, id), "customer")
}

// Export renders every customer of the store as CSV.
func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	table := export.Table{Headers: []string{
		"ID", "Email", "First Name", "Last Name", "Phone", "Addresses", "Newsletter", "Verified", "Created At",
	}}
	for _, c := range rows {
		table.Append(
			strconv.FormatUint(uint64(c.ID), 10),
			c.Email,
			c.FirstName,
			c.LastName,
			export.Str(c.Phone),
			export.JoinAddresses(addressLines(c)),
			strconv.FormatBool(c.Newsletter),
			strconv.FormatBool(c.IsVerified),
			c.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	out, err := table.CSV()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render customers csv")
	}
	return out, nil
}

func addressLines(c models.Customer) []string {
	var lines []string
	if c.ShippingAddress != nil {
		lines = append(lines, "Shipping: "+c.ShippingAddress.Flatten(", "))
	}
	if c.BillingAddress != nil {
		lines = append(lines, "Billing: "+c.BillingAddress.Flatten(", "))
	}
	return lines
}
