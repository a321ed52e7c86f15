package main

// @title CareConnect API
// @version 1.0
// @description Checkout sessions and buyer sign-up for the care marketplace.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/jordanlanch/careconnect/config"
	"github.com/jordanlanch/careconnect/pkg/api/handlers"
	"github.com/jordanlanch/careconnect/pkg/authevents"
	"github.com/jordanlanch/careconnect/pkg/billing"
	"github.com/jordanlanch/careconnect/pkg/cache"
	"github.com/jordanlanch/careconnect/pkg/database"
	"github.com/jordanlanch/careconnect/pkg/jobs"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/jordanlanch/careconnect/pkg/metrics"
	custommiddleware "github.com/jordanlanch/careconnect/pkg/middleware"
	"github.com/jordanlanch/careconnect/pkg/plans"
	"github.com/jordanlanch/careconnect/pkg/secrets"
	"github.com/jordanlanch/careconnect/pkg/signup"
	"github.com/jordanlanch/careconnect/pkg/supabase"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/jordanlanch/careconnect/docs" // Swagger docs (generated)
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️  No .env file loaded, reading the process environment")
	}

	// Load configuration
	cfg := config.Load()
	appLogger := logger.New(cfg.LogLevel)
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	// Overlay deployment secrets when a secrets backend is enabled
	secretsCfg := secrets.AutoDetectConfig()
	if secretsCfg.Backend != "env" {
		secretsManager, err := secrets.NewManager(secretsCfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize secrets manager: %v", err)
		}
		applied, err := secrets.Overlay(context.Background(), secretsManager, map[string]*string{
			"STRIPE_SECRET_KEY":         &cfg.StripeSecretKey,
			"SUPABASE_SERVICE_ROLE_KEY": &cfg.SupabaseServiceRoleKey,
			"SUPABASE_ANON_KEY":         &cfg.SupabaseAnonKey,
			"DATABASE_URL":              &cfg.DatabaseURL,
			"REDIS_URL":                 &cfg.RedisURL,
			"AUTH_HOOK_SECRET":          &cfg.AuthHookSecret,
			"SUPABASE_JWT_SECRET":       &cfg.SupabaseJWTSecret,
			"SENTRY_DSN":                &cfg.SentryDSN,
		})
		if err != nil {
			log.Fatalf("❌ Failed to load secrets: %v", err)
		}
		log.Printf("✅ Loaded %d secrets from %s", len(applied), secretsCfg.Backend)
	}

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
			BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
				// strip cookies
				if event.Request != nil {
					event.Request.Cookies = ""
				}
				return event
			},
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Plan data store: direct database first, hosted REST interface otherwise
	var (
		db       *database.Client
		planRepo plans.Repository
	)
	switch {
	case cfg.DatabaseURL != "":
		sslCfg := &database.SSLConfig{
			Mode:         cfg.DBSSLMode,
			CertPath:     cfg.DBSSLCertPath,
			KeyPath:      cfg.DBSSLKeyPath,
			RootCertPath: cfg.DBSSLRootCertPath,
		}
		var err error
		db, err = database.NewClient(context.Background(), cfg.DatabaseURL, database.DefaultPoolConfig(), sslCfg, appLogger)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()
		planRepo = plans.NewSQLRepository(db.DB)
		log.Printf("✅ Plans read from database")
	case cfg.HasDataStore():
		planRepo = plans.NewRESTRepository(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey))
		log.Printf("✅ Plans read from hosted backend")
	default:
		log.Printf("⚠️  No plan data store configured")
	}

	// Checkout service, built once. Left nil when not configured.
	var checkoutService *billing.Service
	if cfg.CheckoutConfigured() {
		gateway, err := billing.NewStripeGateway(billing.StripeConfig{SecretKey: cfg.StripeSecretKey})
		if err != nil {
			log.Fatalf("❌ Failed to initialize payment gateway: %v", err)
		}
		resolver := plans.NewResolver(planRepo,
			plans.WithTokenUnitPrice(cfg.TokenUnitPrice),
			plans.WithObserver(prometheusMetrics),
			plans.WithLogger(appLogger),
		)
		checkoutService = billing.NewService(resolver, gateway,
			billing.WithRecorder(prometheusMetrics),
			billing.WithServiceLogger(appLogger),
		)
		log.Printf("✅ Checkout service initialized (token price: %d GBP)", cfg.TokenUnitPrice)
	} else {
		log.Printf("⚠️  Checkout disabled: payment gateway or data store not configured")
	}

	// Auth-state signals: Redis when configured, in-process otherwise
	var (
		redisClient *cache.Client
		bus         authevents.Bus
	)
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = cache.NewClient(cfg.RedisURL, appLogger)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		bus = authevents.NewRedisBus(redisClient, appLogger)
		log.Printf("✅ Auth signals over Redis")
	} else {
		bus = authevents.NewLocalBus()
		log.Printf("ℹ️  Redis not configured, auth signals stay in-process")
	}

	// Signup wizards
	var auth signup.AuthProvider
	if cfg.SupabaseURL != "" && cfg.SignupKey() != "" {
		redirectTo := ""
		if cfg.FrontendURL != "" {
			redirectTo = strings.TrimRight(cfg.FrontendURL, "/") + "/auth/callback"
		}
		auth = signup.NewSupabaseAuthAdapter(supabase.NewClient(cfg.SupabaseURL, cfg.SignupKey()), redirectTo)
	}
	wizards := signup.NewManager(signup.ManagerConfig{
		Auth:                auth,
		Watcher:             bus,
		ConfirmationTimeout: cfg.SignupConfirmationTimeout,
		SessionTTL:          cfg.SignupSessionTTL,
		Recorder:            prometheusMetrics,
		Logger:              appLogger,
	})

	// Dependency monitor
	monitorCfg := jobs.MonitorConfig{
		Wizards: wizards.Count,
		Gauge:   prometheusMetrics,
	}
	if db != nil {
		monitorCfg.DB = db
		monitorCfg.Pool = db
	}
	if redisClient != nil {
		monitorCfg.Redis = redisClient
	}
	monitor := jobs.NewMonitor(monitorCfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	rateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(prometheusMetrics.Middleware())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.SkipDocs))
	e.Use(middleware.Gzip())

	// Health and metrics (public)
	healthHandler := handlers.NewHealthHandler(monitor)
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET(custommiddleware.DocsPrefix+"*", echoSwagger.WrapHandler)

	// Checkout answers any origin and handles its own preflight
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, billing.BaseURLSource{
		FrontendURL: cfg.FrontendURL,
		PlatformURL: cfg.PlatformURL,
	})
	e.Any("/api/create-checkout-session", checkoutHandler.CreateCheckoutSession,
		custommiddleware.CheckoutCORS(),
		rateLimiter.RateLimitMiddleware(),
	)

	// Auth backend webhook (server to server)
	authHookHandler := handlers.NewAuthHookHandler(bus)
	e.POST("/api/auth/hooks/signed-in", authHookHandler.SignedIn,
		custommiddleware.RequireHookSecret(cfg.AuthHookSecret),
	)

	// Browser API with restricted origins
	api := e.Group("/api")
	api.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	api.Use(rateLimiter.RateLimitMiddleware())
	{
		pricingHandler := handlers.NewPricingHandler(checkoutService)
		api.GET("/pricing/:slug", pricingHandler.GetPrice)

		// Browser reports its session once the confirmed user signs in
		api.POST("/auth/session", authHookHandler.SessionSignedIn,
			custommiddleware.RequireAccessToken(cfg.SupabaseJWTSecret),
		)

		if auth != nil {
			signupHandler := handlers.NewSignupHandler(wizards)
			signupHandler.Register(api.Group("/signup/wizards"))

			phoneHandler := handlers.NewPhoneHandler()
			api.POST("/signup/phone/validate", phoneHandler.ValidatePhone)
			log.Printf("✅ Signup wizard enabled (confirmation timeout: %s)", cfg.SignupConfirmationTimeout)
		} else {
			log.Printf("⚠️  Signup wizard disabled: auth backend not configured")
		}
	}

	// Cron jobs
	cronManager := jobs.NewCronManager(wizards, rateLimiter, monitor, log.Default())
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatalf("❌ Failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	log.Printf("✅ Cron jobs started successfully")

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 CareConnect API starting on %s", address)
	log.Printf("📝 Log level: %s", cfg.LogLevel)
	log.Printf("🌍 CORS: %s (checkout: *)", strings.Join(cfg.CORSAllowedOrigins, ", "))
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("⏰ Cron jobs: wizard sweep (%s), rate limiter cleanup (%s), health (%s)",
		jobs.SweepSchedule, jobs.CleanupSchedule, jobs.MonitorSchedule)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cronManager.Stop()
	log.Println("✅ Cron jobs stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
