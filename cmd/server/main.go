package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caregate/internal/audit"
	"caregate/internal/cache"
	"caregate/internal/config"
	"caregate/internal/database"
	"caregate/internal/erp"
	"caregate/internal/handlers"
	"caregate/internal/jobs"
	"caregate/internal/logging"
	"caregate/internal/middleware"
	"caregate/internal/models"
	"caregate/internal/orchestrator"
	"caregate/internal/services"
	"caregate/pkg/auth"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting CareGate Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, ERP: %s)", cfg.Port, cfg.ERPBaseURL)

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			log.Fatal("❌ APP_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "change-me-strong-secret"
		log.Println("⚠️  APP_JWT_SECRET not set, using development default")
	}

	// Initialize the audit database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Caller token verification
	jwtAuth, err := auth.NewTokenIssuer(cfg.JWTSecret, 2*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
	}

	// Core components
	auditLogger := audit.NewLogger(db)
	store := cache.New()
	tokens := erp.NewTokenProvider(cfg.ERPTokenURL, cfg.ERPClientID, cfg.ERPClientSecret, cfg.ERPScope)
	erpClient := erp.NewClient(cfg.ERPBaseURL, tokens)
	metrics := services.InitMetrics()

	ttls := orchestrator.TTLs{
		Beds:    cfg.CacheBedsTTL,
		Claims:  cfg.CacheClaimsTTL,
		Slots:   cfg.CacheSlotsTTL,
		Records: cfg.CacheRecordsTTL,
	}
	orc := orchestrator.New(erpClient, store, auditLogger, metrics, ttls)

	// Background jobs
	jobScheduler := jobs.NewScheduler()
	retention := jobs.NewRetentionCleanupJob(auditLogger, time.Duration(cfg.AuditRetentionDays)*24*time.Hour)
	if err := jobScheduler.Register("0 2 * * *", "audit-retention", retention); err != nil {
		log.Fatalf("❌ Failed to register retention job: %v", err)
	}
	if cfg.ERPClientID != "" {
		prewarm := jobs.NewTokenPrewarmJob(tokens)
		if err := jobScheduler.Register("*/5 * * * *", "token-prewarm", prewarm); err != nil {
			log.Fatalf("❌ Failed to register token prewarm job: %v", err)
		}
	}
	jobScheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CareGate v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getAllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("caregate")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := handlers.NewAuthHandler(jwtAuth)
	assistantHandler := handlers.NewAssistantHandler(orc)
	integrationsHandler := handlers.NewIntegrationsHandler(erpClient, store, ttls)

	// Routes
	app.Get("/health", healthHandler.Handle)

	if cfg.Environment != "production" {
		app.Get("/auth/dev-token", authHandler.DevToken)
		log.Println("⚠️  Dev token endpoint enabled at /auth/dev-token")
	}

	app.Post("/assistant/query",
		limiter.New(limiter.Config{Max: 60, Expiration: 1 * time.Minute}),
		middleware.RequireScopes(jwtAuth, models.ScopeBedsRead, models.ScopeClaimsRead, models.ScopeAppointmentsRead),
		assistantHandler.Query,
	)

	integrations := app.Group("/integrations")
	integrations.Get("/beds",
		middleware.RequireScopes(jwtAuth, models.ScopeBedsRead), integrationsHandler.Beds)
	integrations.Get("/claims/:claim_id",
		middleware.RequireScopes(jwtAuth, models.ScopeClaimsRead), integrationsHandler.Claim)
	integrations.Get("/appointments/slots",
		middleware.RequireScopes(jwtAuth, models.ScopeAppointmentsRead), integrationsHandler.Slots)
	integrations.Get("/patients/:patient_id/records",
		middleware.RequireScopes(jwtAuth, models.ScopeRecordsRead), integrationsHandler.Records)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func getAllowedOrigins() string {
	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		// Default to localhost for development
		origins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	return origins
}
