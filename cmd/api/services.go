package main

import (
	"github.com/angelmondragon/shopdesk-backend/api/routes"
	"github.com/angelmondragon/shopdesk-backend/internal/auth"
	"github.com/angelmondragon/shopdesk-backend/internal/brands"
	"github.com/angelmondragon/shopdesk-backend/internal/categories"
	"github.com/angelmondragon/shopdesk-backend/internal/customers"
	"github.com/angelmondragon/shopdesk-backend/internal/invoices"
	"github.com/angelmondragon/shopdesk-backend/internal/kyc"
	product "github.com/angelmondragon/shopdesk-backend/internal/products"
	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/internal/stores"
	"github.com/angelmondragon/shopdesk-backend/internal/suppliers"
	"github.com/angelmondragon/shopdesk-backend/internal/users"
	"github.com/angelmondragon/shopdesk-backend/internal/variants"
	"github.com/angelmondragon/shopdesk-backend/pkg/auth/session"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/mailer"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

func buildServices(
	cfg *config.Config,
	dbClient *db.Client,
	uploader *storage.Uploader,
	sender mailer.Sender,
	renderer *mailer.Renderer,
	logg *logger.Logger,
) (routes.Services, error) {
	var out routes.Services
	conn := dbClient.DB()

	userRepo := users.NewRepository(conn)
	customerRepo := customers.NewRepository(conn)

	userSessions, err := session.NewManager(cfg.JWT, enums.PrincipalUser, userRepo)
	if err != nil {
		return out, err
	}
	customerSessions, err := session.NewManager(cfg.JWT, enums.PrincipalCustomer, customerRepo)
	if err != nil {
		return out, err
	}

	if out.Settings, err = settings.NewService(settings.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Stores, err = stores.NewService(stores.NewRepository(conn), out.Settings, uploader, logg); err != nil {
		return out, err
	}
	if out.Auth, err = auth.NewService(auth.ServiceParams{
		Users:          userRepo,
		Stores:         out.Stores,
		Sessions:       userSessions,
		Mailer:         sender,
		Renderer:       renderer,
		PasswordConfig: cfg.Password,
	}); err != nil {
		return out, err
	}
	if out.CustomerAuth, err = customers.NewAuthService(customers.AuthParams{
		Repo:           customerRepo,
		Sessions:       customerSessions,
		Mailer:         sender,
		Renderer:       renderer,
		PasswordConfig: cfg.Password,
	}); err != nil {
		return out, err
	}
	if out.Customers, err = customers.NewService(customerRepo); err != nil {
		return out, err
	}
	if out.Users, err = users.NewService(userRepo, uploader); err != nil {
		return out, err
	}
	if out.KYC, err = kyc.NewService(kyc.NewRepository(conn), dbClient, uploader); err != nil {
		return out, err
	}
	if out.Categories, err = categories.NewService(categories.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Brands, err = brands.NewService(brands.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Products, err = product.NewService(product.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Variants, err = variants.NewService(variants.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Suppliers, err = suppliers.NewService(suppliers.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Invoices, err = invoices.NewService(invoices.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	return out, nil
}
