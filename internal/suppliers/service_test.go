package suppliers

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, conn
}

func str(v string) *string { return &v }

func TestCreateAndReplaceContacts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateSupplierRequest{
		Name:          "Fabrics Ltd",
		ContactPerson: str("Ada"),
		Emails:        []string{" Sales@Fabrics.test ", ""},
		Phones:        []string{"+2348000000000"},
		Addresses:     []AddressDTO{{Line1: "1 Mill Rd", City: "Lagos", Country: "NG"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales@fabrics.test"}, created.Emails)
	assert.Len(t, created.Addresses, 1)

	noPhones := []string{}
	updated, err := svc.Update(ctx, 1, created.ID, UpdateSupplierRequest{Phones: &noPhones, Notes: str("net 30")})
	require.NoError(t, err)
	assert.Empty(t, updated.Phones)
	assert.Equal(t, []string{"sales@fabrics.test"}, updated.Emails)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "net 30", *updated.Notes)

	badEmails := []string{"not-an-email"}
	_, err = svc.Update(ctx, 1, created.ID, UpdateSupplierRequest{Emails: &badEmails})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Update(ctx, 2, created.ID, UpdateSupplierRequest{Name: str("x")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListSearchesContactPerson(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateSupplierRequest{Name: "Fabrics", ContactPerson: str("Grace Hopper")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, CreateSupplierRequest{Name: "Buttons"})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, ListQuery{Search: "hopper"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fabrics", page.Items[0].Name)
}

func TestDeleteDetachesInvoices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateSupplierRequest{Name: "Fabrics", Emails: []string{"a@b.test"}})
	require.NoError(t, err)
	invoice := &models.Invoice{StoreID: 1, SupplierID: &created.ID, InvoiceNumber: "INV-1", Status: enums.InvoiceStatusDraft, Total: decimal.Zero}
	require.NoError(t, conn.Create(invoice).Error)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	var reloaded models.Invoice
	require.NoError(t, conn.First(&reloaded, invoice.ID).Error)
	assert.Nil(t, reloaded.SupplierID)
	var emails int64
	require.NoError(t, conn.Model(&models.SupplierEmail{}).Count(&emails).Error)
	assert.Zero(t, emails)
}

func TestExportJoinsAddresses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateSupplierRequest{
		Name:   "Fabrics",
		Emails: []string{"a@b.test", "c@d.test"},
		Addresses: []AddressDTO{
			{Line1: "1 Mill Rd", City: "Lagos", Country: "NG"},
			{Line1: "2 Port St", Line2: str("Unit 4"), City: "Accra", PostalCode: str("00233"), Country: "GH"},
		},
	})
	require.NoError(t, err)

	out, err := svc.Export(ctx, 1)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a@b.test, c@d.test", records[1][3])
	assert.Equal(t, "1 Mill Rd, Lagos, NG; 2 Port St, Unit 4, Accra, 00233, GH", records[1][5])
}
