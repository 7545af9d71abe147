package models

import "time"

// Product represents one catalog row: a SKU+size+color combination observed
// in the source feed. Text attributes default to empty string (never NULL)
// so substring and equality filters behave predictably; numeric attributes
// are nullable because the feed frequently omits them.
type Product struct {
	ID                 int       `db:"id" json:"id"`
	Style              string    `db:"style" json:"style"`
	SKU                string    `db:"sku" json:"sku"`
	Title              string    `db:"product_title" json:"title"`
	Description        string    `db:"product_description" json:"description"`
	AvailableSizes     string    `db:"available_sizes" json:"availableSizes"`
	SuggestedPrice     *float64  `db:"suggested_price" json:"suggestedPrice,omitempty"`
	Category           string    `db:"category_name" json:"category"`
	Subcategory        string    `db:"subcategory_name" json:"subcategory"`
	Color              string    `db:"color_name" json:"color"`
	Size               string    `db:"size" json:"size"`
	Stock              *int      `db:"stock" json:"stock,omitempty"`
	PieceWeight        *float64  `db:"piece_weight" json:"pieceWeight,omitempty"`
	Warehouse          string    `db:"warehouse" json:"warehouse"`
	Status             string    `db:"product_status" json:"status"`
	MSRP               *float64  `db:"msrp" json:"msrp,omitempty"`
	MapPricing         *float64  `db:"map_pricing" json:"mapPricing,omitempty"`
	FrontModelImageURL string    `db:"front_model_image_url" json:"frontModelImageUrl,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"-"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductRow is the compact projection returned by list, keyword search and
// low-stock queries.
type ProductRow struct {
	SKU            string   `db:"sku" json:"sku"`
	Title          string   `db:"product_title" json:"title"`
	Category       string   `db:"category_name" json:"category"`
	Color          string   `db:"color_name" json:"color"`
	Size           string   `db:"size" json:"size"`
	Stock          *int     `db:"stock" json:"stock,omitempty"`
	SuggestedPrice *float64 `db:"suggested_price" json:"suggestedPrice,omitempty"`
}

// FilterRow is the projection returned by the paginated filter query.
type FilterRow struct {
	SKU            string   `db:"sku" json:"sku"`
	Title          string   `db:"product_title" json:"title"`
	Category       string   `db:"category_name" json:"category"`
	Subcategory    string   `db:"subcategory_name" json:"subcategory"`
	Color          string   `db:"color_name" json:"color"`
	Size           string   `db:"size" json:"size"`
	Stock          *int     `db:"stock" json:"stock,omitempty"`
	SuggestedPrice *float64 `db:"suggested_price" json:"suggestedPrice,omitempty"`
	Warehouse      string   `db:"warehouse" json:"warehouse"`
	Status         string   `db:"product_status" json:"status"`
}

// CategoryCount is one (category, subcategory) rollup entry.
type CategoryCount struct {
	Category    string `db:"category_name" json:"category"`
	Subcategory string `db:"subcategory_name" json:"subcategory"`
	Count       int    `db:"product_count" json:"count"`
}

// FacetValue is one distinct value of a facet field and its row count.
type FacetValue struct {
	Value string `db:"value" json:"value"`
	Count int    `db:"count" json:"count"`
}

// FacetStat is the breakdown of one facet field: the top values by count
// plus how many distinct values were cut off.
type FacetStat struct {
	Field    string       `json:"field"`
	Distinct int          `json:"distinct"`
	Values   []FacetValue `json:"values"`
	More     int          `json:"more"`
}

// StockSummary aggregates the stock column over rows where it is non-null.
type StockSummary struct {
	Total       int      `db:"total" json:"total"`
	Min         *int     `db:"min_stock" json:"min,omitempty"`
	Max         *int     `db:"max_stock" json:"max,omitempty"`
	Avg         *float64 `db:"avg_stock" json:"avg,omitempty"`
	OutOfStock  int      `db:"out_of_stock" json:"outOfStock"`
	AtOrBelow10 int      `db:"low_stock_10" json:"atOrBelow10"`
	AtOrBelow50 int      `db:"low_stock_50" json:"atOrBelow50"`
}

// PriceSummary aggregates the suggested price over rows where it is non-null.
type PriceSummary struct {
	Min    *float64 `db:"min_price" json:"min,omitempty"`
	Max    *float64 `db:"max_price" json:"max,omitempty"`
	Avg    *float64 `db:"avg_price" json:"avg,omitempty"`
	Priced int      `db:"priced" json:"priced"`
}

// FilterStats is the full payload of the filter statistics operation.
type FilterStats struct {
	Facets []FacetStat  `json:"facets"`
	Stock  StockSummary `json:"stock"`
	Price  PriceSummary `json:"price"`
}

// StockUpdate reports the outcome of a stock mutation.
type StockUpdate struct {
	SKU           string `json:"sku"`
	Title         string `json:"title"`
	Stock         int    `json:"stock"`
	PreviousStock *int   `json:"previousStock,omitempty"`
}
