package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/chylers/storefront-api/api/routes"
	"github.com/chylers/storefront-api/internal/admin"
	"github.com/chylers/storefront-api/internal/auth"
	"github.com/chylers/storefront-api/internal/business"
	"github.com/chylers/storefront-api/internal/cart"
	"github.com/chylers/storefront-api/internal/contact"
	"github.com/chylers/storefront-api/internal/notifications"
	"github.com/chylers/storefront-api/internal/orders"
	product "github.com/chylers/storefront-api/internal/products"
	"github.com/chylers/storefront-api/internal/users"
	shopifywebhook "github.com/chylers/storefront-api/internal/webhooks/shopify"
	"github.com/chylers/storefront-api/pkg/auth/session"
	"github.com/chylers/storefront-api/pkg/config"
	"github.com/chylers/storefront-api/pkg/db"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/mailer"
	"github.com/chylers/storefront-api/pkg/metrics"
	"github.com/chylers/storefront-api/pkg/migrate"
	"github.com/chylers/storefront-api/pkg/redis"
	"github.com/chylers/storefront-api/pkg/shopify"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	shopifyOpts := []shopify.Option{
		shopify.WithLogger(logg),
		shopify.WithMetrics(metrics.NewRemoteCallMetrics(registry)),
	}
	if cfg.FeatureFlags.SkipShopifyProbe {
		shopifyOpts = append(shopifyOpts, shopify.WithoutProbe())
	}
	shopifyClient, err := shopify.New(cfg.Shopify, shopifyOpts...)
	requireResource(ctx, logg, "shopify client", err)
	requireResource(ctx, logg, "shopify probe", shopifyClient.Open(ctx))

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	notifier, err := notifications.NewNotifier(mailer.NewSMTP(cfg.SMTP))
	requireResource(ctx, logg, "notifier", err)
	if !cfg.SMTP.Enabled() {
		logg.Warn(ctx, "smtp host not configured, outbound email disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:         userRepo,
		SessionManager:   sessionManager,
		Customers:        shopifyClient,
		Notifier:         notifier,
		JWTConfig:        cfg.JWT,
		PasswordConfig:   cfg.Password,
		PasswordResetURL: cfg.Store.PasswordResetURL,
		Logger:           logg,
	})
	requireResource(ctx, logg, "auth service", err)

	usersService, err := users.NewService(userRepo, shopifyClient, logg)
	requireResource(ctx, logg, "users service", err)

	productService, err := product.NewService(product.ServiceParams{
		Client:     shopifyClient,
		Attributes: product.NewAttributesRepository(dbClient.DB()),
		Cache:      redisClient,
		CacheTTL:   cfg.Cache.ProductTTL,
		Logger:     logg,
	})
	requireResource(ctx, logg, "product service", err)

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, shopifyClient, logg, cart.ShippingOptions{
		FreeShippingThreshold: cfg.Store.FreeShippingMinimum(),
		HomeRegion:            cfg.Store.HomeRegion,
		WillCallLocation:      cfg.Store.WillCallLocation,
		Source:                cfg.App.Source,
	})
	requireResource(ctx, logg, "cart service", err)

	ordersService, err := orders.NewService(shopifyClient, userRepo)
	requireResource(ctx, logg, "orders service", err)

	contactService, err := contact.NewService(contact.NewRepository(dbClient.DB()), notifier, cfg.Store.BusinessEmail, logg)
	requireResource(ctx, logg, "contact service", err)

	loc, err := business.LoadLocation(cfg.Store.Timezone)
	requireResource(ctx, logg, "business timezone", err)
	businessService, err := business.NewService(business.NewRepository(dbClient.DB()), loc)
	requireResource(ctx, logg, "business service", err)

	adminService, err := admin.NewService(admin.NewStatsRepository(dbClient.DB()), userRepo, shopifyClient, logg)
	requireResource(ctx, logg, "admin service", err)

	webhookService, err := shopifywebhook.NewService(shopifywebhook.ServiceParams{
		Repo:              shopifywebhook.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
		Notifier:          notifier,
		Logger:            logg,
	})
	requireResource(ctx, logg, "shopify webhook service", err)

	webhookGuard, err := shopifywebhook.NewIdempotencyGuard(redisClient, cfg.Webhooks.IdempotencyTTL, "shopify")
	requireResource(ctx, logg, "shopify webhook guard", err)

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Store:        redisClient,
		Sessions:     sessionManager,
		Registry:     registry,
		Auth:         authService,
		Users:        usersService,
		Products:     productService,
		Cart:         cartService,
		Orders:       ordersService,
		Contact:      contactService,
		Business:     businessService,
		Admin:        adminService,
		Webhooks:     webhookService,
		WebhookGuard: webhookGuard,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(runCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	case runErr = <-serveErr:
		if runErr != nil {
			logg.Error(runCtx, "api server stopped unexpectedly", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		shopifyClient.Close(),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(runCtx, "error during shutdown", closeErr)
	}
	if runErr != nil || closeErr != nil {
		os.Exit(1)
	}
	logg.Info(runCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+resource, err)
	os.Exit(1)
}
