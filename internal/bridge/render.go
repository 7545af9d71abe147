package bridge

import (
	"fmt"
	"strings"

	"github.com/warefront/catalog_api/internal/models"
	"github.com/warefront/catalog_api/internal/repository"
)

// The renderers turn query results into the plain-text context block the
// language model summarizes from. Prices and stock render as "N/A" when
// absent so the model never invents numbers for missing data.

func renderPrice(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *p)
}

func renderStock(s *int) string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RenderProduct formats one full product record.
func RenderProduct(p *models.Product) string {
	var b strings.Builder
	b.WriteString("Product Details:\n")
	fmt.Fprintf(&b, "SKU: %s\n", p.SKU)
	fmt.Fprintf(&b, "Style: %s\n", p.Style)
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Description: %s\n", truncate(p.Description, 200))
	fmt.Fprintf(&b, "Category: %s > %s\n", p.Category, p.Subcategory)
	fmt.Fprintf(&b, "Color: %s\n", p.Color)
	fmt.Fprintf(&b, "Size: %s\n", p.Size)
	fmt.Fprintf(&b, "Stock: %s\n", renderStock(p.Stock))
	fmt.Fprintf(&b, "Price: %s\n", renderPrice(p.SuggestedPrice))
	fmt.Fprintf(&b, "Warehouse: %s\n", p.Warehouse)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	return b.String()
}

// RenderRows formats a compact product list.
func RenderRows(rows []models.ProductRow) string {
	if len(rows) == 0 {
		return "No products found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d products:\n\n", len(rows))
	for _, row := range rows {
		fmt.Fprintf(&b, "- SKU: %s\n", row.SKU)
		fmt.Fprintf(&b, "  Title: %s\n", truncate(row.Title, 60))
		fmt.Fprintf(&b, "  Category: %s | Color/Size: %s / %s\n", row.Category, row.Color, row.Size)
		fmt.Fprintf(&b, "  Stock: %s | Price: %s\n", renderStock(row.Stock), renderPrice(row.SuggestedPrice))
	}
	return b.String()
}

// RenderFilterResult formats a filter page with its pagination metadata.
func RenderFilterResult(result *repository.FilterResult) string {
	var b strings.Builder
	page := result.Page
	fmt.Fprintf(&b, "Filtered Products (page %d of %d, %d total):\n\n", page.Page, page.TotalPages, page.TotalCount)
	if len(result.Rows) == 0 {
		b.WriteString("No products found matching the filters.\n")
		return b.String()
	}
	for i, row := range result.Rows {
		fmt.Fprintf(&b, "%d. SKU: %s\n", (page.Page-1)*page.PageSize+i+1, row.SKU)
		fmt.Fprintf(&b, "   Title: %s\n", truncate(row.Title, 60))
		fmt.Fprintf(&b, "   Category: %s > %s | Color: %s | Size: %s\n", row.Category, row.Subcategory, row.Color, row.Size)
		fmt.Fprintf(&b, "   Stock: %s | Price: %s | Warehouse: %s | Status: %s\n",
			renderStock(row.Stock), renderPrice(row.SuggestedPrice), row.Warehouse, row.Status)
	}
	if page.HasNext {
		fmt.Fprintf(&b, "\nNext page: %d\n", page.Page+1)
	}
	return b.String()
}

// RenderCategories formats the category rollup, category-major.
func RenderCategories(rows []models.CategoryCount) string {
	if len(rows) == 0 {
		return "No categories found.\n"
	}
	var b strings.Builder
	b.WriteString("Product Categories:\n\n")
	current := ""
	for _, row := range rows {
		if row.Category != current {
			fmt.Fprintf(&b, "%s\n", row.Category)
			current = row.Category
		}
		fmt.Fprintf(&b, "  - %s: %d products\n", row.Subcategory, row.Count)
	}
	return b.String()
}

// RenderLowStock formats the low-stock report.
func RenderLowStock(rows []models.ProductRow, threshold int) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No products found with stock <= %d.\n", threshold)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Low Stock Products (stock <= %d):\n\n", threshold)
	for _, row := range rows {
		fmt.Fprintf(&b, "- SKU: %s | %s | Category: %s | Stock: %s\n",
			row.SKU, truncate(row.Title, 60), row.Category, renderStock(row.Stock))
	}
	return b.String()
}

// RenderStats formats the facet breakdowns and numeric summaries.
func RenderStats(stats *models.FilterStats) string {
	var b strings.Builder
	b.WriteString("Inventory Statistics:\n\n")
	for _, facet := range stats.Facets {
		fmt.Fprintf(&b, "%s (%d unique values):\n", facet.Field, facet.Distinct)
		for _, v := range facet.Values {
			fmt.Fprintf(&b, "  - %s: %d products\n", v.Value, v.Count)
		}
		if facet.More > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", facet.More)
		}
		b.WriteString("\n")
	}

	b.WriteString("Stock Summary:\n")
	fmt.Fprintf(&b, "  - Total products: %d\n", stats.Stock.Total)
	if stats.Stock.Min != nil && stats.Stock.Max != nil {
		fmt.Fprintf(&b, "  - Stock range: %d - %d\n", *stats.Stock.Min, *stats.Stock.Max)
	}
	if stats.Stock.Avg != nil {
		fmt.Fprintf(&b, "  - Average stock: %.1f\n", *stats.Stock.Avg)
	}
	fmt.Fprintf(&b, "  - Out of stock: %d\n", stats.Stock.OutOfStock)
	fmt.Fprintf(&b, "  - Low stock (<=10): %d\n", stats.Stock.AtOrBelow10)
	fmt.Fprintf(&b, "  - Low stock (<=50): %d\n", stats.Stock.AtOrBelow50)

	if stats.Price.Priced > 0 {
		b.WriteString("\nPrice Summary:\n")
		fmt.Fprintf(&b, "  - Price range: %s - %s\n", renderPrice(stats.Price.Min), renderPrice(stats.Price.Max))
		fmt.Fprintf(&b, "  - Average price: %s\n", renderPrice(stats.Price.Avg))
		fmt.Fprintf(&b, "  - Products with prices: %d\n", stats.Price.Priced)
	}
	return b.String()
}
