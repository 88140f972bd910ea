package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jokads/JokaTech/internal"
	"github.com/jokads/JokaTech/internal/billing"
	"github.com/jokads/JokaTech/internal/bootstrap"
	"github.com/jokads/JokaTech/internal/cache"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/cookie"
	"github.com/jokads/JokaTech/internal/email"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/handler/admin"
	"github.com/jokads/JokaTech/internal/handler/storefront"
	"github.com/jokads/JokaTech/internal/handler/webhook"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/router"
	"github.com/jokads/JokaTech/internal/routes"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/jokads/JokaTech/internal/storage"
	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/jokads/JokaTech/internal/worker"
)

const shutdownTimeout = 20 * time.Second

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

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled && cfg.Sentry.DSN != "",
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

	// Run migrations over database/sql; the app itself uses pgxpool.
	logger.Info("Running database migrations...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info("Database migrations completed successfully")

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	if err := bootstrap.EnsureMasterAdmin(ctx, repo, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Client state and catalog cache
	var (
		redisClient *redis.Client
		store       clientstore.Store
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		store = clientstore.NewRedisStore(redisClient, clientstore.DefaultTTL)
		logger.Info("Client state stored in Redis")
	} else {
		store = clientstore.NewMemoryStore()
		logger.Warn("REDIS_URL not set: client state is kept in memory and lost on restart")
	}

	// Event bus
	var bus events.Bus
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSBus(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		bus = natsBus
		logger.Info("Events fanned out through NATS", "url", cfg.NATS.URL)
	} else {
		bus = events.NewMemoryBus()
	}
	defer bus.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	businessMetrics := telemetry.NewBusinessMetrics("jokatech", registry)
	httpMetrics := middleware.NewMetrics("jokatech", registry)

	// Payments
	var billingProvider billing.Provider
	if cfg.Env == "dev" && strings.HasPrefix(cfg.Stripe.SecretKey, "sk_test_your") {
		billingProvider = billing.NewMockProvider()
		logger.Warn("STRIPE_SECRET_KEY not set: using mock payment provider")
	} else {
		stripeConfig := billing.StripeConfig{
			APIKey:         cfg.Stripe.SecretKey,
			WebhookSecret:  cfg.Stripe.WebhookSecret,
			MaxRetries:     cfg.Stripe.MaxRetries,
			TimeoutSeconds: cfg.Stripe.TimeoutSeconds,
		}
		stripeProvider, err := billing.NewStripeProvider(stripeConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize Stripe provider: %w", err)
		}
		billingProvider = stripeProvider
		logger.Info("Stripe billing provider initialized", "test_mode", stripeConfig.IsTestMode())
	}

	// Email
	sender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	mailer, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName, cfg.Admin.NotifyEmail)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Product images
	images, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	productCache := cache.NewProductCache(redisClient, service.LoadProducts(repo), logger)
	productService := service.NewProductService(repo, productCache, images, businessMetrics, logger)
	reviewService := service.NewReviewService(repo, productCache, logger)
	cartService := service.NewCartService(repo, store, bus, businessMetrics, logger)
	checkoutService := service.NewCheckoutService(store, bus, billingProvider, cfg.BaseURL, businessMetrics, logger)
	levelService := service.NewLevelService(repo, logger)
	orderService := service.NewOrderService(repo, store, bus, billingProvider, levelService, businessMetrics, logger)
	favoritesService := service.NewFavoritesService(repo, store, logger)
	customPCService := service.NewCustomPCService(repo, bus, mailer, businessMetrics, logger)
	sellerService := service.NewSellerService(repo, logger)
	dashboardService := service.NewDashboardService(repo)
	adminAuthService := service.NewAdminAuthService(repo, store, bus, logger)

	// Middleware
	cookies := cookie.NewConfig(cfg.CookieSecure)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	strictRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer strictRateLimiter.Stop()

	r := router.New(
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.ClientSession(cookies),
		middleware.WithRequestLogger(logger),
		router.AccessLog(logger),
		router.Recovery(),
		telemetry.Middleware(middleware.GetRequestID),
		middleware.SecurityHeaders(securityConfig),
		httpMetrics.Middleware,
		router.CORS(cfg.AllowedOrigins),
		middleware.CSRF(middleware.DefaultCSRFConfig(cookies)),
		defaultRateLimiter.Middleware,
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		ProductHandler:   storefront.NewProductHandler(productService, reviewService),
		CartHandler:      storefront.NewCartHandler(cartService),
		CheckoutHandler:  storefront.NewCheckoutHandler(checkoutService, orderService),
		FavoritesHandler: storefront.NewFavoritesHandler(favoritesService),
		CustomPCHandler:  storefront.NewCustomPCHandler(productService, customPCService),
		SellerHandler:    storefront.NewSellerHandler(sellerService),
		EventsHandler:    storefront.NewEventsHandler(bus, cartService, logger),
		Timeout:          middleware.Timeout(middleware.CheckoutTimeout),
		Strict:           strictRateLimiter.Middleware,
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		AuthHandler:      admin.NewAuthHandler(adminAuthService, cookies, logger),
		DashboardHandler: admin.NewDashboardHandler(dashboardService),
		OrderHandler:     admin.NewOrderHandler(orderService),
		ProductHandler:   admin.NewProductHandler(productService, logger),
		CustomPCHandler:  admin.NewCustomPCHandler(customPCService),
		LevelHandler:     admin.NewLevelHandler(levelService),
		SellerHandler:    admin.NewSellerHandler(sellerService),
		RequireAdmin:     middleware.RequireAdmin(adminAuthService),
		Timeout:          middleware.Timeout(middleware.DefaultTimeout),
		Strict:           strictRateLimiter.Middleware,
	})

	routes.RegisterWebhookRoutes(r, routes.WebhookDeps{
		StripeHandler: webhook.NewStripeHandler(billingProvider, orderService, logger).HandleWebhook,
	})

	opsDeps := routes.OpsDeps{
		Health:  healthHandler(pool, redisClient),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}
	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		opsDeps.UploadsDir = cfg.Storage.LocalPath
	}
	routes.RegisterOpsRoutes(r, opsDeps)

	// Start
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.WorkerEnabled {
		w := worker.NewWorker(bus, mailer, businessMetrics, worker.Config{MaxRetries: 3}, logger)
		g.Go(func() error { return w.Start(gctx) })
	} else {
		logger.Info("Email worker disabled on this instance")
	}

	g.Go(func() error {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// healthHandler reports 503 when Postgres or Redis is unreachable.
func healthHandler(pool *pgxpool.Pool, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		status := http.StatusOK
		if err := pool.Ping(ctx); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		handler.JSON(w, status, map[string]interface{}{"status": http.StatusText(status), "checks": checks})
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
