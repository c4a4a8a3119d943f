package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdf-docat-backend/internal/cache"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/handlers"
	"pdf-docat-backend/internal/middleware"
	"pdf-docat-backend/internal/mistral"
	"pdf-docat-backend/internal/openrouter"
	"pdf-docat-backend/internal/services"
)

func main() {
	// Load a local .env in development; missing file is fine.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Run migrations before opening the main pool.
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	db, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the service runs uncached and
	// unthrottled.
	var resultCache *cache.Cache
	var limiter *cache.RateLimiter
	if cfg.RedisURL != "" {
		resultCache, err = cache.New(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
		} else {
			defer resultCache.Close()
			limiter = cache.NewRateLimiter(resultCache, cfg.MaxDailyProcessing)
		}
	} else {
		log.Println("Warning: REDIS_URL not set. Extraction caching and rate limiting are disabled.")
	}

	// Assemble the engine registry. The OCR engine always registers: with
	// no API key it falls back to local tesseract. The native engine needs
	// an OpenRouter key.
	registry := engine.NewRegistry(cfg.EngineSelection)
	registry.Register(engine.NewPDFTextEngine())

	var ocrClient *mistral.Client
	if cfg.MistralAPIKey != "" {
		ocrClient = mistral.NewClient(cfg.MistralAPIBaseURL, cfg.MistralAPIKey)
	} else {
		log.Println("Warning: MISTRAL_API_KEY not set. OCR engine will use local tesseract.")
	}
	registry.Register(engine.NewOCREngine(ocrClient))

	if cfg.OpenRouterAPIKey != "" {
		registry.Register(engine.NewNativeEngine(
			openrouter.NewClient(cfg.OpenRouterAPIBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)))
	} else {
		log.Println("Warning: OPENROUTER_API_KEY not set. Native engine is disabled.")
	}

	processor := services.NewProcessor(cfg, db, registry, resultCache, limiter)

	authHandler := handlers.NewAuthHandler(cfg, db)
	processHandler := handlers.NewProcessHandler(db, registry, processor)
	logsHandler := handlers.NewLogsHandler(db)
	enginesHandler := handlers.NewEnginesHandler(registry)
	usersHandler := handlers.NewUsersHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	accountHandler := handlers.NewAccountHandler(db)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Auth (no token required)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.POST("/process", processHandler.Process)
	authed.GET("/logs", logsHandler.List)
	authed.GET("/logs/:log_id", logsHandler.Get)
	authed.GET("/engines", enginesHandler.List)
	authed.GET("/account", accountHandler.Me)
	authed.GET("/account/credits", accountHandler.Credits)

	admin := authed.Group("")
	admin.Use(middleware.AdminRequired())

	admin.GET("/users", usersHandler.List)
	admin.POST("/users", usersHandler.Create)
	admin.PATCH("/users/:user_id", usersHandler.Update)
	admin.DELETE("/users/:user_id", usersHandler.Delete)

	admin.GET("/settings", settingsHandler.List)
	admin.GET("/settings/:key", settingsHandler.Get)
	admin.PUT("/settings/:key", settingsHandler.Set)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
