package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/service"
	"github.com/warefront/catalog_api/internal/utils"
)

// CatalogHandler handles the catalog HTTP endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetProduct returns a single product by SKU.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("sku"))
	if err != nil {
		h.writeError(c, err, "Failed to get product")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// ListProducts returns a title-ordered list with an optional category filter.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	category := c.Query("category")
	limit := intQuery(c, "limit", 0)

	rows, err := h.catalog.ListProducts(category, limit)
	if err != nil {
		h.writeError(c, err, "Failed to list products")
		return
	}
	utils.Success(c, 200, "Products retrieved successfully", gin.H{"products": rows})
}

// SearchProducts runs the ranked keyword search.
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	limit := intQuery(c, "limit", 0)

	rows, err := h.catalog.SearchProducts(term, limit)
	if err != nil {
		h.writeError(c, err, "Failed to search products")
		return
	}
	utils.Success(c, 200, "Search completed successfully", gin.H{"products": rows})
}

// AdvancedSearch runs the all-fields search with secondary filters.
func (h *CatalogHandler) AdvancedSearch(c *gin.Context) {
	term := c.Query("q")
	limit := intQuery(c, "limit", 0)
	minStock := intQuery(c, "min_stock", 0)
	categoryFilter := c.Query("category")
	sortBy := c.Query("sort_by")

	rows, err := h.catalog.AdvancedSearch(term, limit, minStock, categoryFilter, sortBy)
	if err != nil {
		h.writeError(c, err, "Failed to search products")
		return
	}
	utils.Success(c, 200, "Search completed successfully", gin.H{"products": rows})
}

// FilterProducts runs the paginated filter query from a JSON body.
func (h *CatalogHandler) FilterProducts(c *gin.Context) {
	var req query.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid filter request body")
		return
	}

	result, err := h.catalog.FilterProducts(req)
	if err != nil {
		h.writeError(c, err, "Failed to filter products")
		return
	}
	utils.SuccessWithPagination(c, 200, "Products filtered successfully", gin.H{
		"products": result.Rows,
	}, result.Page)
}

// updateStockRequest is the stock mutation body.
type updateStockRequest struct {
	Stock *int `json:"stock"`
}

// UpdateStock sets a new stock value for a SKU.
func (h *CatalogHandler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid stock update body")
		return
	}

	update, err := h.catalog.UpdateStock(c.Param("sku"), req.Stock)
	if err != nil {
		h.writeError(c, err, "Failed to update stock")
		return
	}
	utils.Success(c, 200, "Stock updated successfully", update)
}

// GetCategories returns the (category, subcategory) rollup.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	rows, err := h.catalog.GetCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to get categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{"categories": rows})
}

// GetLowStockProducts returns products at or below the stock threshold.
func (h *CatalogHandler) GetLowStockProducts(c *gin.Context) {
	threshold := intQuery(c, "threshold", service.DefaultLowStockLevel)
	limit := intQuery(c, "limit", 0)

	rows, err := h.catalog.GetLowStockProducts(threshold, limit)
	if err != nil {
		h.writeError(c, err, "Failed to get low stock products")
		return
	}
	utils.Success(c, 200, "Low stock products retrieved successfully", gin.H{
		"threshold": threshold,
		"products":  rows,
	})
}

// GetFilterStats returns facet breakdowns and stock/price summaries.
func (h *CatalogHandler) GetFilterStats(c *gin.Context) {
	fields := c.QueryArray("fields")

	stats, err := h.catalog.GetFilterStats(c.Request.Context(), fields)
	if err != nil {
		h.writeError(c, err, "Failed to get filter stats")
		return
	}
	utils.Success(c, 200, "Filter stats retrieved successfully", stats)
}

// writeError maps service errors onto the response envelope: validation
// failures are 400s, a missing SKU is a 404, everything else is a store
// failure.
func (h *CatalogHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrSKURequired):
		utils.Error(c, 400, "VALIDATION_ERROR", "SKU is required")
	case errors.Is(err, utils.ErrStockRequired):
		utils.Error(c, 400, "VALIDATION_ERROR", "Stock value is required")
	case errors.Is(err, utils.ErrQueryRequired):
		utils.Error(c, 400, "VALIDATION_ERROR", "Search query is required")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}

// intQuery parses an integer query parameter, falling back to def on
// absent or invalid input.
func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
