package query

import (
	"fmt"
	"strings"
)

// searchColumns is the fixed set of text columns the global search term
// matches against.
var searchColumns = []string{
	"product_title",
	"product_description",
	"sku",
	"category_name",
	"color_name",
}

// ApplySearch appends one OR-group matching the term case-insensitively
// against every search column, with its own bound copy of the wildcarded
// term per column. The group ANDs with existing predicates: search narrows
// filtered results, it does not replace them. An empty term is a no-op.
func ApplySearch(b *WhereBuilder, term string) {
	if term == "" {
		return
	}
	pattern := "%" + term + "%"
	parts := make([]string, len(searchColumns))
	for i, column := range searchColumns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", column, b.Bind(pattern))
	}
	b.Add("(" + strings.Join(parts, " OR ") + ")")
}
