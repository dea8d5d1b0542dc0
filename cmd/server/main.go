package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/techstore/internal"
	"github.com/dukerupert/techstore/internal/address"
	"github.com/dukerupert/techstore/internal/auth"
	"github.com/dukerupert/techstore/internal/catalog"
	"github.com/dukerupert/techstore/internal/cookie"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/events"
	"github.com/dukerupert/techstore/internal/handler/storefront"
	"github.com/dukerupert/techstore/internal/middleware"
	"github.com/dukerupert/techstore/internal/postgres"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/router"
	"github.com/dukerupert/techstore/internal/routes"
	"github.com/dukerupert/techstore/internal/service"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("techstore", registry)
	business := telemetry.NewBusinessMetrics("techstore", registry)

	// Initialize storage
	logger.Info("Initializing storage...", "provider", cfg.Storage.Provider)
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("Storage initialized")

	// Initialize order event publisher
	var publisher domain.EventPublisher = events.Noop{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(events.Config{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			ClientName:    cfg.NATS.ClientName,
		}, logger, business)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Close(); err != nil {
				logger.Warn("failed to drain NATS connection", "error", err)
			}
		}()
		publisher = nc
		logger.Info("Publishing order events", "url", cfg.NATS.URL, "prefix", cfg.NATS.SubjectPrefix)
	} else {
		logger.Info("NATS_URL not set, order events are not published")
	}

	// Initialize geocoder
	var geocoder address.Geocoder
	if cfg.Geo.GeocoderURL != "" {
		geocoder = address.NewNominatimGeocoder(address.NominatimConfig{
			Endpoint:  cfg.Geo.GeocoderURL,
			UserAgent: cfg.Geo.GeocoderAgent,
			Timeout:   cfg.Geo.GeocodeTimeout,
		}, business)
	}

	// Initialize sessions
	products := catalog.Default()
	coupons := pricing.DefaultTable()
	rates := shipping.NewFlatRateProvider(shipping.DefaultRates())

	manager := service.NewSessionManager(service.SessionDeps{
		Store:          store,
		Catalog:        products,
		Coupons:        coupons,
		Shipping:       rates,
		Addresses:      address.NewBasicValidator(),
		Geocoder:       geocoder,
		Warehouse:      shipping.NewWarehouse(cfg.Geo.WarehouseLat, cfg.Geo.WarehouseLng),
		GeocodeTimeout: cfg.Geo.GeocodeTimeout,
		Orders:         service.NewOrderRepository(ctx, store, logger, business),
		Users:          service.NewUserRepository(ctx, store, logger, business),
		Hasher:         auth.NewHasher(auth.DefaultCost),
		Events:         publisher,
		Logger:         logger,
		Metrics:        business,
		IdleTTL:        cfg.Session.IdleTTL,
	})
	go manager.Run(ctx, sweepInterval)

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	cookies := &cookie.Config{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: cfg.Session.MaxAge,
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	strictRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer strictRateLimiter.Stop()

	sentryContext := telemetry.SentryContextMiddleware(func(ctx context.Context) *telemetry.UserInfo {
		u := domain.UserFromContext(ctx)
		if u == nil {
			return nil
		}
		return &telemetry.UserInfo{ID: u.ID, Email: u.Email}
	})
	openSession := middleware.Session(manager, cookies)
	session := func(next http.Handler) http.Handler {
		return openSession(sentryContext(next))
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.Session.Secure)),
		middleware.MaxBodySize(),
		defaultRateLimiter.Middleware,
	)

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		Health:  healthHandler(manager),
		Metrics: httpMetrics.Handler(),
	})
	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		Session:     session,
		CSRF:        middleware.CSRF(middleware.CSRFConfig{CookieConfig: cookies}),
		StrictLimit: strictRateLimiter.Middleware,
		Catalog:     storefront.NewCatalogHandler(products, coupons, rates, business),
		Cart:        storefront.NewCartHandler(products),
		Checkout:    storefront.NewCheckoutHandler(),
		Orders:      storefront.NewOrderHandler(),
		Account:     storefront.NewAccountHandler(),
		Lists:       storefront.NewListHandler(),
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		OperatorToken: cfg.OperatorToken,
		Fulfilment:    storefront.NewFulfilmentHandler(manager.Operator()),
	})
	if cfg.OperatorToken == "" {
		logger.Warn("OPERATOR_TOKEN not set, fulfilment endpoints are disabled")
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// openStore builds the configured document store. The postgres provider
// migrates the schema before use.
func openStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (storage.Store, func(), error) {
	if cfg.Storage.Provider != "postgres" {
		store, err := storage.NewStore(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("storage initialization failed: %w", err)
		}
		return store, func() {}, nil
	}

	logger.Info("Connecting to database...")
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	logger.Info("Database connection established")

	logger.Info("Running database migrations...")
	sqlDB := postgres.SQLDB(pool)
	defer sqlDB.Close()
	if err := internal.RunMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return postgres.NewKVStore(pool), pool.Close, nil
}

func healthHandler(manager *service.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"sessions": manager.Len(),
		})
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
