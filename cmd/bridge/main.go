package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/bridge"
	"github.com/warefront/catalog_api/internal/cache"
	"github.com/warefront/catalog_api/internal/config"
	"github.com/warefront/catalog_api/internal/database"
	"github.com/warefront/catalog_api/internal/repository"
	"github.com/warefront/catalog_api/internal/service"
	"github.com/warefront/catalog_api/pkg/ollama"
)

// main runs the interactive natural-language catalog assistant.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Env)

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(1)
	}
	defer db.Close()

	var statsCache *cache.StatsCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed, continuing without cache")
		} else {
			defer redisClient.Close()
			statsCache = cache.NewStatsCache(redisClient, cfg.Cache.StatsTTL)
		}
	}

	repo := repository.NewProductRepository(db)
	catalog := service.NewCatalogService(repo, statsCache)
	llm := ollama.NewClient(cfg.Ollama.Host)

	ctx := context.Background()

	model, err := pickModel(ctx, llm, cfg.Ollama.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach ollama at %s: %v\n", cfg.Ollama.Host, err)
		os.Exit(1)
	}
	assistant := bridge.NewBridge(catalog, llm, model)

	fmt.Println("Product Catalog Assistant")
	fmt.Printf("Model: %s\n", model)
	fmt.Println("Type a question, or: models, stats, examples, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("Bye.")
			return
		case "models":
			printModels(ctx, llm)
			continue
		case "stats":
			printStats(ctx, catalog)
			continue
		case "examples":
			printExamples()
			continue
		}

		answer, err := assistant.Answer(ctx, line)
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
}

// pickModel verifies the configured model is installed, falling back to the
// first installed model when it is not.
func pickModel(ctx context.Context, llm *ollama.Client, preferred string) (string, error) {
	models, err := llm.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", fmt.Errorf("no models installed")
	}

	for _, m := range models {
		if m.Name == preferred {
			return preferred, nil
		}
	}
	log.Warn().Str("preferred", preferred).Str("using", models[0].Name).Msg("Preferred model not installed")
	return models[0].Name, nil
}

func printModels(ctx context.Context, llm *ollama.Client) {
	models, err := llm.ListModels(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		return
	}
	fmt.Println("Installed models:")
	for _, m := range models {
		fmt.Printf("  - %s (%.1f GB)\n", m.Name, float64(m.Size)/(1024*1024*1024))
	}
	fmt.Println()
}

// printStats dumps the raw inventory statistics without a model round trip.
func printStats(ctx context.Context, catalog *service.CatalogService) {
	stats, err := catalog.GetFilterStats(ctx, nil)
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		return
	}
	fmt.Println(bridge.RenderStats(stats))
}

func printExamples() {
	fmt.Println("Example questions:")
	fmt.Println("  - tell me about sku B15453")
	fmt.Println("  - do you have any hoodies?")
	fmt.Println("  - show me red shirts under $20 sorted by price")
	fmt.Println("  - what categories do you sell?")
	fmt.Println("  - which products are running low on stock?")
	fmt.Println("  - give me an inventory breakdown by color")
	fmt.Println()
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
