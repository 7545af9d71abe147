package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileFiltersOperators(t *testing.T) {
	tests := []struct {
		name       string
		filters    map[string]interface{}
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "text icontains wraps in wildcards",
			filters:    map[string]interface{}{"title__icontains": "shirt"},
			wantClause: "WHERE product_title ILIKE $1",
			wantArgs:   []interface{}{"%shirt%"},
		},
		{
			name:       "text exact binds verbatim",
			filters:    map[string]interface{}{"sku__exact": "B15453"},
			wantClause: "WHERE sku = $1",
			wantArgs:   []interface{}{"B15453"},
		},
		{
			name:       "enum exact",
			filters:    map[string]interface{}{"size__exact": "M"},
			wantClause: "WHERE size = $1",
			wantArgs:   []interface{}{"M"},
		},
		{
			name:       "enum in binds one placeholder per element",
			filters:    map[string]interface{}{"warehouse__in": []interface{}{"IL", "KS"}},
			wantClause: "WHERE warehouse IN ($1,$2)",
			wantArgs:   []interface{}{"IL", "KS"},
		},
		{
			name:       "enum in accepts string slice",
			filters:    map[string]interface{}{"status__in": []string{"active", "closeout"}},
			wantClause: "WHERE product_status IN ($1,$2)",
			wantArgs:   []interface{}{"active", "closeout"},
		},
		{
			name:       "numeric gte",
			filters:    map[string]interface{}{"stock__gte": 10},
			wantClause: "WHERE stock >= $1",
			wantArgs:   []interface{}{10},
		},
		{
			name:       "numeric lt accepts float",
			filters:    map[string]interface{}{"price__lt": 19.99},
			wantClause: "WHERE suggested_price < $1",
			wantArgs:   []interface{}{19.99},
		},
		{
			name: "range on one field emits two predicates",
			filters: map[string]interface{}{
				"price__gte": 10.0,
				"price__lte": 50.0,
			},
			wantClause: "WHERE suggested_price >= $1 AND suggested_price <= $2",
			wantArgs:   []interface{}{10.0, 50.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewWhereBuilder()
			ignored := CompileFilters(b, tt.filters)

			assert.Empty(t, ignored)
			assert.Equal(t, tt.wantClause, b.Clause())
			assert.Equal(t, tt.wantArgs, b.Args())
		})
	}
}

func TestCompileFiltersIgnoresBadKeys(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]interface{}
	}{
		{"unknown field", map[string]interface{}{"shoe_size__gte": 10}},
		{"unknown operator for class", map[string]interface{}{"stock__icontains": "5"}},
		{"missing separator", map[string]interface{}{"title": "shirt"}},
		{"wrong value type for text", map[string]interface{}{"title__icontains": 5}},
		{"wrong value type for numeric", map[string]interface{}{"stock__gte": "ten"}},
		{"empty in list", map[string]interface{}{"size__in": []interface{}{}}},
		{"in list with non-string element", map[string]interface{}{"size__in": []interface{}{"M", 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewWhereBuilder()
			ignored := CompileFilters(b, tt.filters)

			assert.Len(t, ignored, 1)
			assert.Equal(t, "", b.Clause())
			assert.Empty(t, b.Args())
		})
	}
}

func TestCompileFiltersSkipsNilAndEmptySilently(t *testing.T) {
	b := NewWhereBuilder()
	ignored := CompileFilters(b, map[string]interface{}{
		"title__icontains": nil,
		"color__exact":     "",
	})

	// "No filter" values are neither compiled nor reported.
	assert.Empty(t, ignored)
	assert.Equal(t, "", b.Clause())
}

func TestCompileFiltersDeterministicOrder(t *testing.T) {
	// Keys compile in sorted order, so parameter positions are stable no
	// matter how the map iterates.
	for i := 0; i < 10; i++ {
		b := NewWhereBuilder()
		ignored := CompileFilters(b, map[string]interface{}{
			"price__lte":          50.0,
			"category__icontains": "shirts",
			"stock__gt":           0,
		})

		assert.Empty(t, ignored)
		assert.Equal(t, "WHERE category_name ILIKE $1 AND suggested_price <= $2 AND stock > $3", b.Clause())
		assert.Equal(t, []interface{}{"%shirts%", 50.0, 0}, b.Args())
	}
}

func TestCompileFiltersWildcardsPassThrough(t *testing.T) {
	// % and _ in the value keep their LIKE meaning. The contract is
	// pass-through, not escaping.
	b := NewWhereBuilder()
	ignored := CompileFilters(b, map[string]interface{}{"title__icontains": "100% cotton"})

	assert.Empty(t, ignored)
	assert.Equal(t, []interface{}{"%100% cotton%"}, b.Args())
}

func TestCompileFiltersMixedGoodAndBad(t *testing.T) {
	b := NewWhereBuilder()
	ignored := CompileFilters(b, map[string]interface{}{
		"color__exact": "Red",
		"bogus__gte":   1,
		"stock__gte":   5,
	})

	assert.Equal(t, []string{"bogus__gte"}, ignored)
	assert.Equal(t, "WHERE color_name = $1 AND stock >= $2", b.Clause())
	assert.Equal(t, []interface{}{"Red", 5}, b.Args())
}
