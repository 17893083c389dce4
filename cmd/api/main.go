package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medingen/catalog_api/internal/cache"
	"github.com/medingen/catalog_api/internal/config"
	"github.com/medingen/catalog_api/internal/database"
	"github.com/medingen/catalog_api/internal/handler"
	"github.com/medingen/catalog_api/internal/middleware"
	"github.com/medingen/catalog_api/internal/repository"
	"github.com/medingen/catalog_api/internal/service"
	"github.com/medingen/catalog_api/internal/utils"
)

// main is the application entrypoint for the Medingen catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The candidate cache is optional: when REDIS_HOST
	// is unset or the connection fails, lookups go straight to the store.
	var candidateCache service.CandidateCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - candidate caching disabled")
		} else {
			defer redisClient.Close()
			candidateCache = cache.NewCandidateCache(redisClient, cfg.Match.CacheTTL)
			log.Info().Msg("redis connected successfully")
		}
	} else {
		log.Info().Msg("REDIS_HOST not set - candidate caching disabled")
	}

	// 4. Configure JWT signing
	utils.SetJWTSecret(cfg.JWTSecret)

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	catalogSvc := service.NewCatalogService(productRepo, candidateCache)
	matchSvc := service.NewMatchService(matchRepo, candidateCache, cfg.Match.CandidateLimit)
	importSvc := service.NewImportService()
	exportSvc := service.NewExportService()
	adminAuthSvc := service.NewAdminAuthService(adminRepo)

	// 6a. Bootstrap the operator account so a fresh deployment can log in
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := adminAuthSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Error().Err(err).Msg("admin bootstrap failed")
		}
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db),
		Product: handler.NewProductHandler(catalogSvc, exportSvc),
		Match:   handler.NewMatchHandler(matchSvc),
		Import:  handler.NewImportHandler(importSvc),
		Auth:    handler.NewAuthHandler(adminAuthSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Match   *handler.MatchHandler
	Import  *handler.ImportHandler
	Auth    *handler.AuthHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	// Health is mounted both at the documented API path and at the root for
	// infrastructure probes.
	router.GET("/health", handlers.Health.GetHealth)

	api := router.Group("/api")
	api.GET("/health", handlers.Health.GetHealth)

	// Admin authentication
	api.POST("/auth/login", handlers.Auth.Login)

	products := api.Group("/products")
	{
		// Public catalog reads
		products.GET("", handlers.Product.ListProducts)
		products.GET("/search", handlers.Product.SearchProducts)
		products.GET("/export", handlers.Product.ExportProducts)
		products.GET("/:id", handlers.Product.GetProduct)

		// Matching reads
		products.POST("/find-matches", handlers.Match.FindMatches)
		products.POST("/match-stock", handlers.Match.MatchStock)
	}

	// Catalog writes and reconciliation actions require an admin token
	protected := api.Group("/products")
	protected.Use(jwtMiddleware.Handle())
	{
		protected.POST("", handlers.Product.CreateProduct)
		protected.PUT("/:id", handlers.Product.UpdateProduct)
		protected.DELETE("/:id", handlers.Product.DeleteProduct)
		protected.POST("/approve-match", handlers.Match.ApproveMatch)
		protected.POST("/unmatch", handlers.Match.Unmatch)
		protected.POST("/upload-excel", handlers.Import.UploadExcel)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
