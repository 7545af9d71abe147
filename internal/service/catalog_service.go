package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/cache"
	"github.com/warefront/catalog_api/internal/models"
	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/repository"
	"github.com/warefront/catalog_api/internal/utils"
)

// Default limits for the query operations, matching the tool contracts.
const (
	defaultListLimit     = 10
	defaultSearchLimit   = 10
	defaultAdvancedLimit = 15
	defaultLowStockLimit = 20
	DefaultLowStockLevel = 50
)

// defaultStatsFields is used when the stats caller names no facet fields.
var defaultStatsFields = []string{"category", "color", "size"}

// CatalogService exposes the catalog query and mutation operations. The
// stats cache is optional; a nil cache means every read goes to Postgres.
type CatalogService struct {
	repo  *repository.ProductRepository
	stats *cache.StatsCache
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo *repository.ProductRepository, stats *cache.StatsCache) *CatalogService {
	return &CatalogService{repo: repo, stats: stats}
}

// GetProduct returns a single product by SKU.
func (s *CatalogService) GetProduct(sku string) (*models.Product, error) {
	if sku == "" {
		return nil, utils.ErrSKURequired
	}
	return s.repo.GetBySKU(sku)
}

// ListProducts returns a title-ordered product list, optionally narrowed by
// a category substring.
func (s *CatalogService) ListProducts(category string, limit int) ([]models.ProductRow, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(category, limit)
}

// SearchProducts runs the ranked keyword search.
func (s *CatalogService) SearchProducts(term string, limit int) ([]models.ProductRow, error) {
	if term == "" {
		return nil, utils.ErrQueryRequired
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.repo.Search(term, limit)
}

// AdvancedSearch runs the all-fields search with secondary filters.
func (s *CatalogService) AdvancedSearch(term string, limit, minStock int, categoryFilter, sortBy string) ([]models.Product, error) {
	if term == "" {
		return nil, utils.ErrQueryRequired
	}
	if limit <= 0 {
		limit = defaultAdvancedLimit
	}
	if sortBy == "" {
		sortBy = "title"
	}
	return s.repo.AdvancedSearch(term, limit, minStock, categoryFilter, sortBy)
}

// FilterProducts runs the paginated filter query. Dropped filter keys and
// ordering tokens are not errors, but they usually mean the caller (often
// the language-model bridge) produced a spec we could not fully honor, so
// they are logged for diagnosis.
func (s *CatalogService) FilterProducts(req query.FilterRequest) (*repository.FilterResult, error) {
	result, err := s.repo.Filter(req)
	if err != nil {
		return nil, err
	}
	if len(result.IgnoredFilters) > 0 {
		log.Warn().Strs("keys", result.IgnoredFilters).Msg("Ignored unknown or malformed filter keys")
	}
	if len(result.IgnoredOrdering) > 0 {
		log.Warn().Strs("tokens", result.IgnoredOrdering).Msg("Ignored unknown ordering tokens")
	}
	return result, nil
}

// UpdateStock sets a new stock value for a SKU. A nil stock is a validation
// error; a missing SKU row is a NotFound result with no write performed.
func (s *CatalogService) UpdateStock(sku string, stock *int) (*models.StockUpdate, error) {
	if sku == "" {
		return nil, utils.ErrSKURequired
	}
	if stock == nil {
		return nil, utils.ErrStockRequired
	}
	return s.repo.UpdateStock(sku, *stock)
}

// GetCategories returns the (category, subcategory) rollup, served from
// cache when one is configured.
func (s *CatalogService) GetCategories(ctx context.Context) ([]models.CategoryCount, error) {
	if s.stats != nil {
		if rows, err := s.stats.GetCategories(ctx); err == nil {
			return rows, nil
		}
	}

	rows, err := s.repo.Categories()
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		if err := s.stats.SetCategories(ctx, rows); err != nil {
			log.Warn().Err(err).Msg("Failed to cache categories")
		}
	}
	return rows, nil
}

// GetLowStockProducts returns products at or below the stock threshold.
func (s *CatalogService) GetLowStockProducts(threshold, limit int) ([]models.ProductRow, error) {
	if limit <= 0 {
		limit = defaultLowStockLimit
	}
	return s.repo.LowStock(threshold, limit)
}

// GetFilterStats computes the facet breakdown for the requested fields plus
// the stock and price summaries, served from cache when one is configured.
func (s *CatalogService) GetFilterStats(ctx context.Context, fields []string) (*models.FilterStats, error) {
	if len(fields) == 0 {
		fields = defaultStatsFields
	}

	if s.stats != nil {
		if cached, err := s.stats.GetStats(ctx, fields); err == nil {
			return cached, nil
		}
	}

	facets, err := s.repo.FacetStats(fields)
	if err != nil {
		return nil, err
	}
	stock, err := s.repo.StockSummary()
	if err != nil {
		return nil, err
	}
	price, err := s.repo.PriceSummary()
	if err != nil {
		return nil, err
	}

	stats := &models.FilterStats{Facets: facets, Stock: *stock, Price: *price}
	if s.stats != nil {
		if err := s.stats.SetStats(ctx, fields, stats); err != nil {
			log.Warn().Err(err).Msg("Failed to cache filter stats")
		}
	}
	return stats, nil
}
