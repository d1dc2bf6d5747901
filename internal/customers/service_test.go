package customers

import (
	"bytes"
	"context"
	"encoding/csv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/angelmondragon/shopdesk-backend/pkg/auth/session"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/mailer"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
	"github.com/angelmondragon/shopdesk-backend/pkg/types"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	auth *authService
	svc  Service
	repo *Repository
	mail *recordingMailer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	sessions, err := session.NewManager(config.JWTConfig{
		AccessSecret:    "access",
		RefreshSecret:   "refresh",
		Issuer:          "shopdesk",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, enums.PrincipalCustomer, repo)
	require.NoError(t, err)
	renderer, err := mailer.NewRenderer("")
	require.NoError(t, err)

	mail := &recordingMailer{}
	authSvc, err := NewAuthService(AuthParams{
		Repo:           repo,
		Sessions:       sessions,
		Mailer:         mail,
		Renderer:       renderer,
		PasswordConfig: config.PasswordConfig{BcryptCost: bcrypt.MinCost, MinLength: 8, CodeTTL: 15 * time.Minute},
	})
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return fixture{auth: authSvc.(*authService), svc: svc, repo: repo, mail: mail}
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	return typed.Code()
}

func (f fixture) registerVerified(t *testing.T, storeID uint, email, first string) *AuthResponse {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.Register(ctx, storeID, RegisterRequest{Email: email, FirstName: first, LastName: "Doe", Password: "password123"})
	require.NoError(t, err)
	customer, err := f.repo.FindByEmail(ctx, storeID, email)
	require.NoError(t, err)
	resp, err := f.auth.VerifyEmail(ctx, storeID, VerifyCodeRequest{Email: email, Code: *customer.VerificationCode})
	require.NoError(t, err)
	return resp
}

func TestRegisterIsStoreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := RegisterRequest{Email: "c@shop.test", FirstName: "C", LastName: "D", Password: "password123"}

	_, err := f.auth.Register(ctx, 1, req)
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, 2, req)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, 1, req)
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(t, err))
	assert.Len(t, f.mail.sent, 2)
}

func TestCustomerLoginAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	verified := f.registerVerified(t, 1, "c@shop.test", "Cara")
	assert.True(t, verified.Customer.IsVerified)

	_, err := f.auth.Login(ctx, 2, LoginRequest{Email: "c@shop.test", Password: "password123"})
	assert.Equal(t, pkgerrors.CodeUnauthorized, codeOf(t, err))

	resp, err := f.auth.Login(ctx, 1, LoginRequest{Email: "c@shop.test", Password: "password123"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Customer.LastActiveAt)

	refreshed, err := f.auth.Refresh(ctx, 1, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.auth.Refresh(ctx, 2, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.Equal(t, pkgerrors.CodeUnauthorized, codeOf(t, err))

	require.NoError(t, f.auth.Logout(ctx, resp.Customer.ID))
	require.NoError(t, f.auth.Logout(ctx, resp.Customer.ID))
	_, err = f.auth.Refresh(ctx, 1, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.Equal(t, pkgerrors.CodeUnauthorized, codeOf(t, err))
}

func TestCustomerUnverifiedLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, 1, RegisterRequest{Email: "c@shop.test", FirstName: "C", LastName: "D", Password: "password123"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, 1, LoginRequest{Email: "c@shop.test", Password: "password123"})
	assert.Equal(t, pkgerrors.CodeForbidden, codeOf(t, err))
}

func TestCustomerPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerVerified(t, 1, "c@shop.test", "Cara")

	_, err := f.auth.ForgotPassword(ctx, 1, EmailRequest{Email: "c@shop.test"})
	require.NoError(t, err)
	customer, err := f.repo.FindByEmail(ctx, 1, "c@shop.test")
	require.NoError(t, err)
	code := *customer.ResetPasswordToken

	_, err = f.auth.VerifyResetCode(ctx, 1, VerifyCodeRequest{Email: "c@shop.test", Code: code})
	require.NoError(t, err)
	_, err = f.auth.ResetPassword(ctx, 1, ResetPasswordRequest{Email: "c@shop.test", Code: code, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, 1, LoginRequest{Email: "c@shop.test", Password: "brand-new-pass"})
	require.NoError(t, err)

	_, err = f.auth.ForgotPassword(ctx, 2, EmailRequest{Email: "c@shop.test"})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestListSearchAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerVerified(t, 1, "ada@shop.test", "Ada")
	f.registerVerified(t, 1, "grace@shop.test", "Grace")
	f.registerVerified(t, 1, "alan@shop.test", "Alan")
	f.registerVerified(t, 2, "ada@other.test", "Ada")

	page, err := f.svc.List(ctx, 1, ListQuery{Params: pagination.Params{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Meta.TotalCount)
	assert.Equal(t, 2, page.Meta.TotalPages)

	page, err = f.svc.List(ctx, 1, ListQuery{Search: "GRACE"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "grace@shop.test", page.Items[0].Email)
}

func TestUpdateGetDeleteAreStoreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.registerVerified(t, 1, "c@shop.test", "Cara")
	id := resp.Customer.ID

	_, err := f.svc.Get(ctx, 2, id)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	newsletter := true
	addr := types.Address{Line1: "1 Main", City: "Lagos", Country: "NG"}
	updated, err := f.svc.Update(ctx, 1, id, UpdateCustomerRequest{Newsletter: &newsletter, ShippingAddress: &addr})
	require.NoError(t, err)
	assert.True(t, updated.Newsletter)
	require.NotNil(t, updated.ShippingAddress)
	assert.Equal(t, "Lagos", updated.ShippingAddress.City)
	assert.Equal(t, "Cara", updated.FirstName)

	blank := ""
	_, err = f.svc.Update(ctx, 1, id, UpdateCustomerRequest{FirstName: &blank})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	_, err = f.svc.Update(ctx, 2, id, UpdateCustomerRequest{Newsletter: &newsletter})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, f.svc.Delete(ctx, 2, id)))
	require.NoError(t, f.svc.Delete(ctx, 1, id))
	_, err = f.svc.Get(ctx, 1, id)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestExportFlattensAddresses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.registerVerified(t, 1, "c@shop.test", "Cara")

	ship := types.Address{Line1: "1 Main", City: "Lagos", Country: "NG"}
	bill := types.Address{Line1: "9 Bank Rd", City: "Abuja", Country: "NG"}
	_, err := f.svc.Update(ctx, 1, resp.Customer.ID, UpdateCustomerRequest{ShippingAddress: &ship, BillingAddress: &bill})
	require.NoError(t, err)

	out, err := f.svc.Export(ctx, 1)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Email", records[0][1])
	assert.Equal(t, "c@shop.test", records[1][1])
	assert.Equal(t, "Shipping: 1 Main, Lagos, NG; Billing: 9 Bank Rd, Abuja, NG", records[1][5])
}
