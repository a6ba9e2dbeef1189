package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chylers/storefront-api/api/controllers"
	authcontrollers "github.com/chylers/storefront-api/api/controllers/auth"
	cartcontrollers "github.com/chylers/storefront-api/api/controllers/cart"
	ordercontrollers "github.com/chylers/storefront-api/api/controllers/orders"
	webhookcontrollers "github.com/chylers/storefront-api/api/controllers/webhooks"
	"github.com/chylers/storefront-api/api/middleware"
	"github.com/chylers/storefront-api/internal/admin"
	"github.com/chylers/storefront-api/internal/auth"
	"github.com/chylers/storefront-api/internal/business"
	"github.com/chylers/storefront-api/internal/cart"
	"github.com/chylers/storefront-api/internal/contact"
	"github.com/chylers/storefront-api/internal/orders"
	product "github.com/chylers/storefront-api/internal/products"
	"github.com/chylers/storefront-api/internal/users"
	"github.com/chylers/storefront-api/pkg/auth/session"
	"github.com/chylers/storefront-api/pkg/config"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/metrics"
	"github.com/chylers/storefront-api/pkg/redis"
)

type rateLimitStore interface {
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type webhookGuard interface {
	CheckAndMark(ctx context.Context, deliveryID string) (bool, error)
	Release(ctx context.Context, deliveryID string) error
}

// Deps carries everything the HTTP surface needs. Nil services answer 500.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Store    rateLimitStore
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth     auth.Service
	Users    users.Service
	Products product.Service
	Cart     cart.Service
	Orders   orders.Service
	Contact  contact.Service
	Business business.Service
	Admin    admin.Service

	Webhooks     webhookcontrollers.ShopifyWebhookService
	WebhookGuard webhookGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if deps.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(deps.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	limits := cfg.AuthRateLimit
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", limits.LoginWindow, limits.LoginIPLimit, limits.LoginEmailLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", limits.RegisterWindow, limits.RegisterIPLimit, limits.RegisterEmailLimit)
	resetPolicy := middleware.NewAuthRateLimitPolicy("password_reset", limits.ResetWindow, limits.ResetIPLimit, limits.ResetEmailLimit)
	contactLimiter := middleware.NewIPRateLimiter(limits.ContactPerMinute)

	// Idempotency runs after authentication so replays are scoped per user.
	idempotent := middleware.Idempotency(deps.Store, logg)
	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}, logg))
	})
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Store, logg), idempotent).Post("/register", authcontrollers.Register(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Store, logg)).Post("/login", authcontrollers.Login(deps.Auth, logg))
			r.Post("/refresh", authcontrollers.Refresh(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(resetPolicy, deps.Store, logg)).Post("/password-reset", authcontrollers.RequestPasswordReset(deps.Auth, logg))
			r.Post("/password-reset/confirm", authcontrollers.ConfirmPasswordReset(deps.Auth, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authcontrollers.Me(deps.Users, logg))
				r.Post("/logout", authcontrollers.Logout(deps.Auth, logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authcontrollers.Me(deps.Users, logg))
			r.Put("/me", controllers.UserUpdateMe(deps.Users, logg))
			r.Get("/orders", controllers.UserOrders(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/featured", controllers.ProductFeatured(deps.Products, logg))
			r.Get("/collections", controllers.ProductCollections(deps.Products, logg))
			r.Get("/{handle}", controllers.ProductByHandle(deps.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(optionalAuth)
			cookies := cartcontrollers.CookieOptions{Secure: cfg.App.IsProd()}
			r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg, cookies))
			r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg, cookies))
			r.With(idempotent).Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg, cookies))
			r.Put("/items/{itemId}", cartcontrollers.CartUpdateItem(deps.Cart, logg, cookies))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(deps.Cart, logg, cookies))
			r.Post("/discount", cartcontrollers.CartApplyDiscount(deps.Cart, logg, cookies))
			r.Post("/shipping-rates", cartcontrollers.CartShippingRates(deps.Cart, logg, cookies))
			r.Get("/checkout-url", cartcontrollers.CartCheckoutURL(deps.Cart, logg, cookies))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Get(deps.Orders, logg))
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(middleware.RateLimit(contactLimiter, logg), idempotent).Post("/", controllers.ContactSubmit(deps.Contact, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Get("/", controllers.ContactList(deps.Contact, logg))
				r.Put("/{inquiryId}", controllers.ContactUpdate(deps.Contact, logg))
			})
		})

		r.Route("/business", func(r chi.Router) {
			r.Get("/info", controllers.BusinessInfo(deps.Business, logg))
			r.Get("/social-media", controllers.BusinessSocialLinks(deps.Business, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.With(idempotent).Post("/social-media", controllers.BusinessAddSocialLink(deps.Business, logg))
				r.Put("/info", controllers.BusinessUpdateInfo(deps.Business, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/stats", controllers.AdminStats(deps.Admin, logg))
			r.Get("/users", controllers.AdminListUsers(deps.Admin, logg))
			r.Put("/users/{userId}/toggle-active", controllers.AdminToggleUserActive(deps.Admin, logg))
			r.Get("/orders", ordercontrollers.AdminList(deps.Orders, logg))
			r.With(idempotent).Post("/sync-products", controllers.AdminSyncProducts(deps.Products, logg))
			r.Put("/products/{productId}/attributes", controllers.AdminUpdateProductAttributes(deps.Products, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/shopify/{resource}/{action}", webhookcontrollers.ShopifyWebhook(deps.Webhooks, cfg.Shopify.WebhookSecret, deps.WebhookGuard, logg))
		})
	})

	return r
}
