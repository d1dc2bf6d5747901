package suppliers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/internal/identity"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, storeID uint, req CreateSupplierRequest) (*SupplierDTO, error)
	List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[SupplierDTO], error)
	Get(ctx context.Context, storeID, id uint) (*SupplierDTO, error)
	Update(ctx context.Context, storeID, id uint, req UpdateSupplierRequest) (*SupplierDTO, error)
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
		return nil, fmt.Errorf("supplier repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, storeID uint, req CreateSupplierRequest) (*SupplierDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	contacts, err := buildContacts(&req.Emails, &req.Phones, &req.Addresses)
	if err != nil {
		return nil, err
	}

	var id uint
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		supplier := &models.Supplier{
			StoreID:       storeID,
			Name:          name,
			ContactPerson: optional(req.ContactPerson),
			Notes:         req.Notes,
		}
		if err := repo.Create(ctx, supplier); err != nil {
			return err
		}
		id = supplier.ID
		return contacts.write(ctx, repo, id)
	})
	if err != nil {
		return nil, db.Translate(err, "supplier")
	}
	return s.Get(ctx, storeID, id)
}

func (s *service) List(ctx context.Context, storeID uint, q ListQuery) (pagination.Page[SupplierDTO], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, storeID, q.Search, params)
	if err != nil {
		return pagination.Page[SupplierDTO]{}, db.Translate(err, "supplier")
	}
	items := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, storeID, id uint) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, db.Translate(err, "supplier")
	}
	return FromModel(supplier), nil
}

func (s *service) Update(ctx context.Context, storeID, id uint, req UpdateSupplierRequest) (*SupplierDTO, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.ContactPerson != nil {
		fields["contact_person"] = optional(req.ContactPerson)
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	contacts, err := buildContacts(req.Emails, req.Phones, req.Addresses)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		if err := repo.UpdateFields(ctx, storeID, id, fields); err != nil {
			return err
		}
		return contacts.write(ctx, repo, id)
	})
	if err != nil {
		return nil, db.Translate(err, "supplier")
	}
	return s.Get(ctx, storeID, id)
}

// Delete keeps the supplier's invoices but clears their supplier reference.
func (s *service) Delete(ctx context.Context, storeID, id uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, storeID, id)
	})
	return db.Translate(err, "supplier")
}

func (s *service) Export(ctx context.Context, storeID uint) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, db.Translate(err, "supplier")
	}

	table := export.Table{Headers: []string{"ID", "Name", "Contact Person", "Emails", "Phones", "Addresses", "Notes", "Created At"}}
	for i := range rows {
		dto := FromModel(&rows[i])
		addresses := make([]string, 0, len(dto.Addresses))
		for _, a := range dto.Addresses {
			addresses = append(addresses, a.Flatten())
		}
		table.Append(
			strconv.FormatUint(uint64(dto.ID), 10),
			dto.Name,
			export.Str(dto.ContactPerson),
			export.JoinList(dto.Emails),
			export.JoinList(dto.Phones),
			export.JoinAddresses(addresses),
			export.Str(dto.Notes),
			dto.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return table.CSV()
}

// contactSet holds the child lists to replace; nil entries are left alone.
type contactSet struct {
	emails    *[]models.SupplierEmail
	phones    *[]models.SupplierPhone
	addresses *[]models.SupplierAddress
}

func buildContacts(emails, phones *[]string, addresses *[]AddressDTO) (contactSet, error) {
	var set contactSet
	if emails != nil {
		rows := make([]models.SupplierEmail, 0, len(*emails))
		for i, raw := range *emails {
			email := identity.NormalizeEmail(raw)
			if email == "" {
				continue
			}
			if err := identity.ValidateEmail(email); err != nil {
				return set, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("emails[%d] is not a valid email", i))
			}
			rows = append(rows, models.SupplierEmail{Email: email})
		}
		set.emails = &rows
	}
	if phones != nil {
		rows := make([]models.SupplierPhone, 0, len(*phones))
		for _, raw := range *phones {
			if phone := strings.TrimSpace(raw); phone != "" {
				rows = append(rows, models.SupplierPhone{Phone: phone})
			}
		}
		set.phones = &rows
	}
	if addresses != nil {
		rows := make([]models.SupplierAddress, 0, len(*addresses))
		for i, a := range *addresses {
			line1, city, country := strings.TrimSpace(a.Line1), strings.TrimSpace(a.City), strings.TrimSpace(a.Country)
			if line1 == "" || city == "" || country == "" {
				return set, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("addresses[%d] requires line1, city and country", i))
			}
			rows = append(rows, models.SupplierAddress{
				Line1:      line1,
				Line2:      optional(a.Line2),
				City:       city,
				State:      optional(a.State),
				Country:    country,
				PostalCode: optional(a.PostalCode),
			})
		}
		set.addresses = &rows
	}
	return set, nil
}

func (c contactSet) write(ctx context.Context, repo *Repository, supplierID uint) error {
	if c.emails != nil {
		rows := *c.emails
		for i := range rows {
			rows[i].SupplierID = supplierID
		}
		if err := repo.ReplaceEmails(ctx, supplierID, rows); err != nil {
			return err
		}
	}
	if c.phones != nil {
		rows := *c.phones
		for i := range rows {
			rows[i].SupplierID = supplierID
		}
		if err := repo.ReplacePhones(ctx, supplierID, rows); err != nil {
			return err
		}
	}
	if c.addresses != nil {
		rows := *c.addresses
		for i := range rows {
			rows[i].SupplierID = supplierID
		}
		if err := repo.ReplaceAddresses(ctx, supplierID, rows); err != nil {
			return err
		}
	}
	return nil
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
