package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters and is constructed
// once at process start, then injected into the components that need it.
type Config struct {
	Port string
	Env  string

	DB     DatabaseConfig
	Redis  RedisConfig
	Ollama OllamaConfig
	Loader LoaderConfig
	Worker WorkerConfig
	Cache  CacheConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the cache entirely; every read then goes straight to the database.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis endpoint is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// OllamaConfig contains the Ollama endpoint and default model for the
// natural-language bridge.
type OllamaConfig struct {
	Host  string
	Model string
}

// LoaderConfig contains CSV import parameters.
type LoaderConfig struct {
	BatchSize int
	CSVPath   string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	LowStockInterval  time.Duration
	LowStockThreshold int
}

// CacheConfig controls TTLs for cached query results.
type CacheConfig struct {
	StatsTTL time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis (optional)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Ollama bridge
	cfg.Ollama = OllamaConfig{
		Host:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
		Model: getEnv("OLLAMA_MODEL", "llama3.1:8b"),
	}

	// CSV loader
	cfg.Loader = LoaderConfig{
		BatchSize: getEnvInt("LOADER_BATCH_SIZE", 1000),
		CSVPath:   getEnv("LOADER_CSV_PATH", "products-master.csv"),
	}
	if cfg.Loader.BatchSize <= 0 {
		cfg.Loader.BatchSize = 1000
	}

	// Workers (durations)
	var err error
	if cfg.Worker.LowStockInterval, err = parseDurationEnv("LOW_STOCK_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid LOW_STOCK_INTERVAL: %w", err)
	}
	cfg.Worker.LowStockThreshold = getEnvInt("LOW_STOCK_THRESHOLD", 50)

	if cfg.Cache.StatsTTL, err = parseDurationEnv("STATS_CACHE_TTL", "60s"); err != nil {
		return nil, fmt.Errorf("invalid STATS_CACHE_TTL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
