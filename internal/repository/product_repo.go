package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/warefront/catalog_api/internal/models"
	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/utils"
)

// ProductRepository handles data access for the products table.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FilterResult is the full output of the paginated filter query: the page
// slice, pagination metadata, and the filter/ordering tokens that were
// dropped during compilation.
type FilterResult struct {
	Rows            []models.FilterRow `json:"rows"`
	Page            query.PageInfo     `json:"page"`
	IgnoredFilters  []string           `json:"-"`
	IgnoredOrdering []string           `json:"-"`
}

// GetBySKU returns a single product by SKU, or ErrProductNotFound.
func (r *ProductRepository) GetBySKU(sku string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE sku = $1 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns products ordered by title, optionally narrowed by a
// case-insensitive category substring. An empty category means no filter.
func (r *ProductRepository) List(category string, limit int) ([]models.ProductRow, error) {
	const q = `
        SELECT sku, product_title, category_name, color_name, size, stock, suggested_price
        FROM products
        WHERE ($1 = '' OR category_name ILIKE '%' || $1 || '%')
        ORDER BY product_title
        LIMIT $2`

	var rows []models.ProductRow
	if err := r.db.Select(&rows, q, category, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search runs the keyword search with the fixed 4-tier ranking: SKU matches
// rank above title matches, which rank above category matches, which rank
// above everything else; ties order by title ascending.
func (r *ProductRepository) Search(term string, limit int) ([]models.ProductRow, error) {
	const q = `
        SELECT sku, product_title, category_name, color_name, size, stock, suggested_price
        FROM products
        WHERE product_title ILIKE $1
           OR product_description ILIKE $2
           OR sku ILIKE $3
           OR category_name ILIKE $4
           OR color_name ILIKE $5
           OR subcategory_name ILIKE $6
        ORDER BY
            CASE
                WHEN sku ILIKE $7 THEN 1
                WHEN product_title ILIKE $8 THEN 2
                WHEN category_name ILIKE $9 THEN 3
                ELSE 4
            END,
            product_title
        LIMIT $10`

	pattern := "%" + term + "%"
	var rows []models.ProductRow
	err := r.db.Select(&rows, q,
		pattern, pattern, pattern, pattern, pattern, pattern,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// advancedSortColumns maps the advanced-search sort keys to their ORDER BY
// expressions. Anything outside this set falls back to the title sort.
var advancedSortColumns = map[string]string{
	"title":    "product_title",
	"stock":    "stock DESC",
	"price":    "suggested_price DESC NULLS LAST",
	"category": "category_name, product_title",
}

// advancedSearchColumns is the broader column set the advanced search
// matches against.
var advancedSearchColumns = []string{
	"sku", "style", "product_title", "product_description",
	"category_name", "subcategory_name", "color_name",
	"size", "warehouse", "product_status",
}

// AdvancedSearch matches the term against every text column, with an
// optional minimum stock and category substring filter, sorted by one of
// the fixed sort keys.
func (r *ProductRepository) AdvancedSearch(term string, limit, minStock int, categoryFilter, sortBy string) ([]models.Product, error) {
	b := query.NewWhereBuilder()

	pattern := "%" + term + "%"
	group := ""
	for i, column := range advancedSearchColumns {
		if i > 0 {
			group += " OR "
		}
		group += fmt.Sprintf("%s ILIKE %s", column, b.Bind(pattern))
	}
	b.Add("(" + group + ")")

	if minStock > 0 {
		b.Add(fmt.Sprintf("stock >= %s", b.Bind(minStock)))
	}
	if categoryFilter != "" {
		b.Add(fmt.Sprintf("category_name ILIKE %s", b.Bind("%"+categoryFilter+"%")))
	}

	orderBy, ok := advancedSortColumns[sortBy]
	if !ok {
		orderBy = "product_title"
	}

	q := fmt.Sprintf(`
        SELECT * FROM products
        %s
        ORDER BY %s
        LIMIT $%d`, b.Clause(), orderBy, b.NextArg())

	args := append(b.Args(), limit)
	var rows []models.Product
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Filter compiles the request into a predicate list and runs the count and
// page queries against the same row set. Both statements share identical
// predicates and parameter values in identical order, differing only in the
// trailing LIMIT/OFFSET, and execute inside one repeatable-read read-only
// transaction so the count cannot drift from the returned rows.
func (r *ProductRepository) Filter(req query.FilterRequest) (*FilterResult, error) {
	b := query.NewWhereBuilder()
	ignoredFilters := query.CompileFilters(b, req.Filters)
	query.ApplySearch(b, req.Search)
	orderBy, ignoredOrdering := query.CompileOrdering(req.Ordering)

	page := query.NormalizePage(req.Page)
	pageSize := query.NormalizePageSize(req.PageSize)

	countQuery := `SELECT COUNT(*) FROM products ` + b.Clause()
	pageQuery := fmt.Sprintf(`
        SELECT sku, product_title, category_name, subcategory_name,
               color_name, size, stock, suggested_price, warehouse, product_status
        FROM products
        %s
        ORDER BY %s
        LIMIT $%d OFFSET $%d`, b.Clause(), orderBy, b.NextArg(), b.NextArg()+1)

	tx, err := r.db.BeginTxx(context.Background(), &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var total int
	if err := tx.Get(&total, countQuery, b.Args()...); err != nil {
		return nil, err
	}

	pageArgs := append(b.Args(), pageSize, query.Offset(page, pageSize))
	rows := []models.FilterRow{}
	if err := tx.Select(&rows, pageQuery, pageArgs...); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &FilterResult{
		Rows:            rows,
		Page:            query.NewPageInfo(page, pageSize, total),
		IgnoredFilters:  ignoredFilters,
		IgnoredOrdering: ignoredOrdering,
	}, nil
}

// UpdateStock sets a new stock value for a SKU and refreshes updated_at.
// Lookup and update run in one transaction; the previous title and stock
// are returned for confirmation. Negative values are accepted.
func (r *ProductRepository) UpdateStock(sku string, stock int) (*models.StockUpdate, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prev struct {
		Title string `db:"product_title"`
		Stock *int   `db:"stock"`
	}
	err = tx.Get(&prev, `SELECT product_title, stock FROM products WHERE sku = $1 FOR UPDATE`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(`UPDATE products SET stock = $1, updated_at = NOW() WHERE sku = $2`, stock, sku)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.StockUpdate{
		SKU:           sku,
		Title:         prev.Title,
		Stock:         stock,
		PreviousStock: prev.Stock,
	}, nil
}

// Categories returns distinct (category, subcategory) pairs with product
// counts in category-major order. Rows without a category are excluded.
func (r *ProductRepository) Categories() ([]models.CategoryCount, error) {
	const q = `
        SELECT category_name, subcategory_name, COUNT(*) AS product_count
        FROM products
        WHERE category_name != ''
        GROUP BY category_name, subcategory_name
        ORDER BY category_name, subcategory_name`

	var rows []models.CategoryCount
	if err := r.db.Select(&rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStock returns products whose stock is non-null and at or below the
// threshold, lowest stock first.
func (r *ProductRepository) LowStock(threshold, limit int) ([]models.ProductRow, error) {
	const q = `
        SELECT sku, product_title, category_name, color_name, size, stock, suggested_price
        FROM products
        WHERE stock IS NOT NULL AND stock <= $1
        ORDER BY stock ASC
        LIMIT $2`

	var rows []models.ProductRow
	if err := r.db.Select(&rows, q, threshold, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// facetColumns is the allow-listed set of facet fields. Column names are
// taken from this map only; requested fields outside it are skipped.
var facetColumns = map[string]string{
	"category":    "category_name",
	"subcategory": "subcategory_name",
	"color":       "color_name",
	"size":        "size",
	"warehouse":   "warehouse",
	"status":      "product_status",
}

// facetCap limits how many distinct values a facet breakdown reports; the
// remainder is summarized as a count.
const facetCap = 15

// FacetStats computes per-value counts for each requested facet field,
// ordered by count descending then value ascending, capped to the top 15
// with an explicit remainder count.
func (r *ProductRepository) FacetStats(fields []string) ([]models.FacetStat, error) {
	stats := make([]models.FacetStat, 0, len(fields))
	for _, field := range fields {
		column, ok := facetColumns[field]
		if !ok {
			continue
		}

		q := fmt.Sprintf(`
            SELECT %s AS value, COUNT(*) AS count
            FROM products
            WHERE %s IS NOT NULL AND %s != ''
            GROUP BY %s
            ORDER BY count DESC, %s ASC`, column, column, column, column, column)

		var values []models.FacetValue
		if err := r.db.Select(&values, q); err != nil {
			return nil, err
		}

		stat := models.FacetStat{Field: field, Distinct: len(values), Values: values}
		if len(values) > facetCap {
			stat.Values = values[:facetCap]
			stat.More = len(values) - facetCap
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// StockSummary aggregates stock over rows where it is non-null.
func (r *ProductRepository) StockSummary() (*models.StockSummary, error) {
	const q = `
        SELECT
            COUNT(*) AS total,
            MIN(stock) AS min_stock,
            MAX(stock) AS max_stock,
            AVG(stock) AS avg_stock,
            COUNT(CASE WHEN stock = 0 THEN 1 END) AS out_of_stock,
            COUNT(CASE WHEN stock <= 10 THEN 1 END) AS low_stock_10,
            COUNT(CASE WHEN stock <= 50 THEN 1 END) AS low_stock_50
        FROM products
        WHERE stock IS NOT NULL`

	var s models.StockSummary
	if err := r.db.Get(&s, q); err != nil {
		return nil, err
	}
	return &s, nil
}

// PriceSummary aggregates the suggested price over rows where it is non-null.
func (r *ProductRepository) PriceSummary() (*models.PriceSummary, error) {
	const q = `
        SELECT
            MIN(suggested_price) AS min_price,
            MAX(suggested_price) AS max_price,
            AVG(suggested_price) AS avg_price,
            COUNT(*) AS priced
        FROM products
        WHERE suggested_price IS NOT NULL`

	var s models.PriceSummary
	if err := r.db.Get(&s, q); err != nil {
		return nil, err
	}
	return &s, nil
}

// upsertSQL replaces every mutable attribute of an existing SKU and
// refreshes updated_at; identity and created_at are never touched.
const upsertSQL = `
    INSERT INTO products (
        style, sku, product_title, product_description, available_sizes,
        suggested_price, category_name, subcategory_name, color_name, size,
        stock, piece_weight, warehouse, product_status, msrp, map_pricing,
        front_model_image_url
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    ON CONFLICT (sku) DO UPDATE SET
        style = EXCLUDED.style,
        product_title = EXCLUDED.product_title,
        product_description = EXCLUDED.product_description,
        available_sizes = EXCLUDED.available_sizes,
        suggested_price = EXCLUDED.suggested_price,
        category_name = EXCLUDED.category_name,
        subcategory_name = EXCLUDED.subcategory_name,
        color_name = EXCLUDED.color_name,
        size = EXCLUDED.size,
        stock = EXCLUDED.stock,
        piece_weight = EXCLUDED.piece_weight,
        warehouse = EXCLUDED.warehouse,
        product_status = EXCLUDED.product_status,
        msrp = EXCLUDED.msrp,
        map_pricing = EXCLUDED.map_pricing,
        front_model_image_url = EXCLUDED.front_model_image_url,
        updated_at = NOW()`

// UpsertBatch writes one batch of products as a single transaction, keyed
// by unique SKU. Rerunning a load with identical rows is a no-op apart
// from updated_at.
func (r *ProductRepository) UpsertBatch(rows []models.Product) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(upsertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range rows {
		_, err := stmt.Exec(
			p.Style, p.SKU, p.Title, p.Description, p.AvailableSizes,
			p.SuggestedPrice, p.Category, p.Subcategory, p.Color, p.Size,
			p.Stock, p.PieceWeight, p.Warehouse, p.Status, p.MSRP, p.MapPricing,
			p.FrontModelImageURL,
		)
		if err != nil {
			return fmt.Errorf("upsert sku %s: %w", p.SKU, err)
		}
	}
	return tx.Commit()
}

// Count returns the total number of catalog rows.
func (r *ProductRepository) Count() (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return n, nil
}
