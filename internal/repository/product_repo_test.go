package repository

import (
	"database/sql"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warefront/catalog_api/internal/models"
	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/utils"
)

func newMockRepo(t *testing.T) (*ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProductRepository(sqlx.NewDb(db, "postgres")), mock
}

// fragments joins exact SQL fragments into one dotall regexp, so a test can
// pin the parts of a statement that matter without copying the whole query.
func fragments(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return "(?s)" + strings.Join(quoted, ".*")
}

var rowColumns = []string{
	"sku", "product_title", "category_name", "color_name", "size", "stock", "suggested_price",
}

func TestGetBySKUNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(fragments("SELECT * FROM products WHERE sku = $1 LIMIT 1")).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBySKU("NOPE")

	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRanksSKUBeforeTitle(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The ranking tiers are fixed: an SKU match sorts strictly before a
	// title match, which sorts strictly before a category match, and ties
	// break on title ascending.
	mock.ExpectQuery(fragments(
		"ORDER BY",
		"CASE",
		"WHEN sku ILIKE $7 THEN 1",
		"WHEN product_title ILIKE $8 THEN 2",
		"WHEN category_name ILIKE $9 THEN 3",
		"ELSE 4",
		"END",
		"product_title",
		"LIMIT $10",
	)).
		WithArgs("%polo%", "%polo%", "%polo%", "%polo%", "%polo%", "%polo%",
			"%polo%", "%polo%", "%polo%", 5).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("B15453", "Polo Shirt", "Polos", "Red", "L", 12, 9.99))

	rows, err := repo.Search("polo", 5)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B15453", rows[0].SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockMissingSKUPerformsNoWrite(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Only the locking SELECT is expected. If UpdateStock issued an UPDATE
	// after a missing row, ExpectationsWereMet would report it.
	mock.ExpectBegin()
	mock.ExpectQuery(fragments("SELECT product_title, stock FROM products WHERE sku = $1 FOR UPDATE")).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateStock("NOPE", 25)

	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockReturnsPreviousValue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(fragments("SELECT product_title, stock FROM products WHERE sku = $1 FOR UPDATE")).
		WithArgs("B15453").
		WillReturnRows(sqlmock.NewRows([]string{"product_title", "stock"}).AddRow("Polo Shirt", 10))
	mock.ExpectExec(fragments("UPDATE products SET stock = $1, updated_at = NOW() WHERE sku = $2")).
		WithArgs(25, "B15453").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	update, err := repo.UpdateStock("B15453", 25)

	require.NoError(t, err)
	assert.Equal(t, "B15453", update.SKU)
	assert.Equal(t, "Polo Shirt", update.Title)
	assert.Equal(t, 25, update.Stock)
	require.NotNil(t, update.PreviousStock)
	assert.Equal(t, 10, *update.PreviousStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterCountAndPageSharePredicates(t *testing.T) {
	repo, mock := newMockRepo(t)

	filterColumns := []string{
		"sku", "product_title", "category_name", "subcategory_name",
		"color_name", "size", "stock", "suggested_price", "warehouse", "product_status",
	}

	// Count and page run in one transaction with identical predicate args;
	// the page statement only appends LIMIT/OFFSET.
	mock.ExpectBegin()
	mock.ExpectQuery(fragments("SELECT COUNT(*) FROM products WHERE color_name = $1")).
		WithArgs("Red").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(fragments(
		"WHERE color_name = $1",
		"ORDER BY suggested_price DESC",
		"LIMIT $2 OFFSET $3",
	)).
		WithArgs("Red", 5, 5).
		WillReturnRows(sqlmock.NewRows(filterColumns).
			AddRow("B15453", "Polo Shirt", "Polos", "Short Sleeve", "Red", "L", 12, 9.99, "IL", "active"))
	mock.ExpectCommit()

	result, err := repo.Filter(query.FilterRequest{
		Filters:  map[string]interface{}{"color__exact": "Red"},
		Ordering: []string{"-price"},
		Page:     2,
		PageSize: 5,
	})

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 12, result.Page.TotalCount)
	assert.Equal(t, 3, result.Page.TotalPages)
	assert.True(t, result.Page.HasPrevious)
	assert.True(t, result.Page.HasNext)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchIsRerunnable(t *testing.T) {
	repo, mock := newMockRepo(t)

	products := []models.Product{
		{SKU: "B15453", Title: "Polo Shirt"},
		{SKU: "B15454", Title: "Tee"},
	}

	// Loading the same rows twice must issue the same conflict-updating
	// statement both times; nothing about the second pass differs.
	for run := 0; run < 2; run++ {
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(fragments("INSERT INTO products", "ON CONFLICT (sku) DO UPDATE SET"))
		for range products {
			prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, repo.UpsertBatch(products))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertNeverTouchesCreatedAt(t *testing.T) {
	// The conflict branch replaces every mutable column and refreshes
	// updated_at; created_at and identity survive a reload untouched.
	_, updateClause, found := strings.Cut(upsertSQL, "DO UPDATE SET")
	require.True(t, found)

	assert.NotContains(t, updateClause, "created_at")
	assert.NotContains(t, updateClause, "id =")
	assert.Contains(t, updateClause, "updated_at = NOW()")
}
