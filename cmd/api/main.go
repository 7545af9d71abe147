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

	"github.com/warefront/catalog_api/internal/cache"
	"github.com/warefront/catalog_api/internal/config"
	"github.com/warefront/catalog_api/internal/database"
	"github.com/warefront/catalog_api/internal/handler"
	"github.com/warefront/catalog_api/internal/middleware"
	"github.com/warefront/catalog_api/internal/repository"
	"github.com/warefront/catalog_api/internal/service"
	"github.com/warefront/catalog_api/internal/worker"
)

// main is the application entrypoint for the catalog API server.
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

	// 3b. Connect to Redis when configured. The cache is optional; without
	// it every stats read goes straight to Postgres.
	var statsCache *cache.StatsCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")

		statsCache = cache.NewStatsCache(redisClient, cfg.Cache.StatsTTL)
	} else {
		log.Info().Msg("redis not configured, stats caching disabled")
	}

	// 4. Initialize repositories and services
	productRepo := repository.NewProductRepository(db)
	catalogSvc := service.NewCatalogService(productRepo, statsCache)

	// 5. Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	healthHandler := handler.NewHealthHandler(db)

	// 6. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, catalogHandler, healthHandler)

	// 7. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 8. Start workers
	go worker.NewLowStockWorker(catalogSvc, cfg.Worker.LowStockInterval, cfg.Worker.LowStockThreshold).Start(ctx)

	// 9. Start HTTP server
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

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Cancel context to stop workers
	cancel()

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, catalog *handler.CatalogHandler, health *handler.HealthHandler) {
	router.GET("/v1/health", health.GetHealth)

	v1 := router.Group("/v1/catalog")
	{
		v1.GET("/products", catalog.ListProducts)
		v1.GET("/products/:sku", catalog.GetProduct)
		v1.POST("/products/filter", catalog.FilterProducts)
		v1.PUT("/products/:sku/stock", catalog.UpdateStock)
		v1.GET("/search", catalog.SearchProducts)
		v1.GET("/search/advanced", catalog.AdvancedSearch)
		v1.GET("/categories", catalog.GetCategories)
		v1.GET("/low-stock", catalog.GetLowStockProducts)
		v1.GET("/stats", catalog.GetFilterStats)
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

	// Run migrations
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
