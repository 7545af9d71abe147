package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/config"
	"github.com/warefront/catalog_api/internal/database"
	"github.com/warefront/catalog_api/internal/repository"
	"github.com/warefront/catalog_api/internal/service"
)

// main loads a product CSV feed into the catalog database.
func main() {
	csvPath := flag.String("csv", "", "path to the product CSV file (defaults to LOADER_CSV_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Env)

	path := *csvPath
	if path == "" {
		path = cfg.Loader.CSVPath
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}

	repo := repository.NewProductRepository(db)
	importer := service.NewImportService(repo, cfg.Loader.BatchSize)

	log.Info().Str("path", path).Int("batch_size", cfg.Loader.BatchSize).Msg("Starting import")

	report, err := importer.Run(path)
	if err != nil {
		log.Error().Err(err).Int("processed", report.Processed).Msg("Import failed")
		os.Exit(1)
	}

	total, err := repo.Count()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count products after import")
	}

	log.Info().
		Int("processed", report.Processed).
		Int("errors", report.Errors).
		Int("total_in_db", total).
		Msg("Import completed")
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
