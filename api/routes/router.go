package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopdesk-backend/api/controllers"
	"github.com/angelmondragon/shopdesk-backend/api/docs"
	"github.com/angelmondragon/shopdesk-backend/api/middleware"
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
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/metrics"
)

// Services groups every domain service the router dispatches to.
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Stores       stores.Service
	KYC          kyc.Service
	Categories   categories.Service
	Brands       brands.Service
	Products     product.Service
	Variants     variants.Service
	Suppliers    suppliers.Service
	Invoices     invoices.Service
	Customers    customers.Service
	CustomerAuth customers.AuthService
	Settings     settings.Service
}

// Params carries the router's infrastructure dependencies. RateLimiter and
// Registry may be nil.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	RateLimiter middleware.RateLimitStore
	Registry    *prometheus.Registry
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness   map[string]db.Pinger
	Services    Services
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger
	svc := p.Services
	maxUpload := cfg.Upload.MaxBytes()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if cfg.FeatureFlags.Metrics && p.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(p.Registry)))
		r.Handle("/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimit := middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, p.RateLimiter, logg)

	r.Get("/health", controllers.Health(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, p.Readiness, logg))

	if cfg.FeatureFlags.DocsEnabled {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OpenCORS())
			r.Get("/docs", docs.UI())
			r.Get("/swagger.json", docs.Spec())
		})
	}

	userAuth := middleware.Auth(cfg.JWT, enums.PrincipalUser, logg)
	storeScope := middleware.StoreContext(svc.Stores, logg)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimit).Post("/register", controllers.AuthRegister(svc.Auth, logg))
			r.With(loginLimit).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.Post("/verify-email", controllers.AuthVerifyEmail(svc.Auth, logg))
			r.Post("/resend-verification", controllers.AuthResendVerification(svc.Auth, logg))
			r.Post("/forgot-password", controllers.AuthForgotPassword(svc.Auth, logg))
			r.Post("/verify-reset-code", controllers.AuthVerifyResetCode(svc.Auth, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(svc.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(userAuth)
				r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
				r.Post("/set-password", controllers.AuthSetPassword(svc.Auth, logg))
			})
		})

		r.Get("/store/storefront/{storeUrl}", controllers.Storefront(svc.Stores, logg))

		r.Route("/storefront/{storeUrl}", func(r chi.Router) {
			r.Use(middleware.StorefrontContext(svc.Stores, logg))

			r.Route("/auth", func(r chi.Router) {
				r.With(registerLimit).Post("/register", controllers.CustomerRegister(svc.CustomerAuth, logg))
				r.With(loginLimit).Post("/login", controllers.CustomerLogin(svc.CustomerAuth, logg))
				r.Post("/verify-email", controllers.CustomerVerifyEmail(svc.CustomerAuth, logg))
				r.Post("/resend-verification", controllers.CustomerResendVerification(svc.CustomerAuth, logg))
				r.Post("/forgot-password", controllers.CustomerForgotPassword(svc.CustomerAuth, logg))
				r.Post("/verify-reset-code", controllers.CustomerVerifyResetCode(svc.CustomerAuth, logg))
				r.Post("/reset-password", controllers.CustomerResetPassword(svc.CustomerAuth, logg))
				r.Post("/refresh", controllers.CustomerRefresh(svc.CustomerAuth, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, enums.PrincipalCustomer, logg))
				r.Use(middleware.RequireTokenStore(logg))
				r.Post("/auth/logout", controllers.CustomerLogout(svc.CustomerAuth, logg))
				r.Get("/me", controllers.CustomerMe(svc.Customers, logg))
				r.Put("/me", controllers.CustomerUpdateMe(svc.Customers, logg))
			})
		})

		// Back-office routes.
		r.Group(func(r chi.Router) {
			r.Use(userAuth)

			r.Route("/user/profile", func(r chi.Router) {
				r.Get("/", controllers.UserProfile(svc.Users, logg))
				r.Put("/", controllers.UserUpdateProfile(svc.Users, logg))
				r.Post("/photo", controllers.UserUploadPhoto(svc.Users, maxUpload, logg))
			})

			r.Route("/store", func(r chi.Router) {
				r.Post("/setup", controllers.StoreSetup(svc.Stores, maxUpload, logg))
				r.Get("/", controllers.StoreGet(svc.Stores, logg))
				r.Put("/", controllers.StoreUpdate(svc.Stores, logg))
				r.Post("/launch", controllers.StoreLaunch(svc.Stores, logg))
			})

			r.Route("/kyc", func(r chi.Router) {
				r.Get("/personal", controllers.KYCGetPersonal(svc.KYC, logg))
				r.Put("/personal", controllers.KYCUpsertPersonal(svc.KYC, logg))
				r.Get("/business", controllers.KYCGetBusiness(svc.KYC, logg))
				r.Put("/business", controllers.KYCUpsertBusiness(svc.KYC, logg))
				r.Get("/documents", controllers.KYCListDocuments(svc.KYC, logg))
				r.Put("/documents", controllers.KYCSaveDocuments(svc.KYC, logg))
				r.Post("/documents/upload", controllers.KYCUploadDocuments(svc.KYC, maxUpload, logg))
				r.Get("/peps", controllers.KYCListPeps(svc.KYC, logg))
				r.Put("/peps", controllers.KYCSavePeps(svc.KYC, logg))
				r.Post("/submit", controllers.KYCSubmit(svc.KYC, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(storeScope)

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", controllers.CategoryList(svc.Categories, logg))
					r.Post("/", controllers.CategoryCreate(svc.Categories, logg))
					r.Get("/export", controllers.CategoryExport(svc.Categories, logg))
					r.Get("/{id}", controllers.CategoryGet(svc.Categories, logg))
					r.Put("/{id}", controllers.CategoryUpdate(svc.Categories, logg))
					r.Delete("/{id}", controllers.CategoryDelete(svc.Categories, logg))
				})

				r.Route("/brands", func(r chi.Router) {
					r.Get("/", controllers.BrandList(svc.Brands, logg))
					r.Post("/", controllers.BrandCreate(svc.Brands, logg))
					r.Get("/export", controllers.BrandExport(svc.Brands, logg))
					r.Get("/{id}", controllers.BrandGet(svc.Brands, logg))
					r.Put("/{id}", controllers.BrandUpdate(svc.Brands, logg))
					r.Delete("/{id}", controllers.BrandDelete(svc.Brands, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.ProductList(svc.Products, logg))
					r.Post("/", controllers.ProductCreate(svc.Products, logg))
					r.Get("/export", controllers.ProductExport(svc.Products, logg))
					r.Get("/{id}", controllers.ProductGet(svc.Products, logg))
					r.Put("/{id}", controllers.ProductUpdate(svc.Products, logg))
					r.Patch("/{id}/stock", controllers.ProductAdjustStock(svc.Products, logg))
					r.Delete("/{id}", controllers.ProductDelete(svc.Products, logg))
				})

				r.Route("/product-variants", func(r chi.Router) {
					r.Get("/", controllers.VariantList(svc.Variants, logg))
					r.Post("/", controllers.VariantCreate(svc.Variants, logg))
					r.Get("/export", controllers.VariantExport(svc.Variants, logg))
					r.Get("/{id}", controllers.VariantGet(svc.Variants, logg))
					r.Put("/{id}", controllers.VariantUpdate(svc.Variants, logg))
					r.Delete("/{id}", controllers.VariantDelete(svc.Variants, logg))
				})

				r.Route("/suppliers", func(r chi.Router) {
					r.Get("/", controllers.SupplierList(svc.Suppliers, logg))
					r.Post("/", controllers.SupplierCreate(svc.Suppliers, logg))
					r.Get("/export", controllers.SupplierExport(svc.Suppliers, logg))
					r.Get("/{id}", controllers.SupplierGet(svc.Suppliers, logg))
					r.Put("/{id}", controllers.SupplierUpdate(svc.Suppliers, logg))
					r.Delete("/{id}", controllers.SupplierDelete(svc.Suppliers, logg))
				})

				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", controllers.InvoiceList(svc.Invoices, logg))
					r.Post("/", controllers.InvoiceCreate(svc.Invoices, logg))
					r.Get("/export", controllers.InvoiceExport(svc.Invoices, logg))
					r.Get("/{id}", controllers.InvoiceGet(svc.Invoices, logg))
					r.Put("/{id}", controllers.InvoiceUpdate(svc.Invoices, logg))
					r.Delete("/{id}", controllers.InvoiceDelete(svc.Invoices, logg))
				})

				r.Route("/customers", func(r chi.Router) {
					r.Get("/", controllers.CustomerList(svc.Customers, logg))
					r.Get("/export", controllers.CustomerExport(svc.Customers, logg))
					r.Get("/{id}", controllers.CustomerGet(svc.Customers, logg))
					r.Put("/{id}", controllers.CustomerUpdate(svc.Customers, logg))
					r.Delete("/{id}", controllers.CustomerDelete(svc.Customers, logg))
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/shipping", controllers.SettingsGetShipping(svc.Settings, logg))
					r.Put("/shipping", controllers.SettingsSaveShipping(svc.Settings, logg))
					r.Get("/shipping-methods", controllers.SettingsListShippingMethods(svc.Settings, logg))
					r.Post("/shipping-methods", controllers.SettingsCreateShippingMethod(svc.Settings, logg))
					r.Delete("/shipping-methods/{id}", controllers.SettingsDeleteShippingMethod(svc.Settings, logg))
					r.Get("/general", controllers.SettingsGetGeneral(svc.Settings, logg))
					r.Put("/general", controllers.SettingsSaveGeneral(svc.Settings, logg))
					r.Get("/locations", controllers.SettingsListLocations(svc.Settings, logg))
					r.Post("/locations", controllers.SettingsCreateLocation(svc.Settings, logg))
					r.Delete("/locations/{id}", controllers.SettingsDeleteLocation(svc.Settings, logg))
				})
			})
		})
	})

	return r
}
