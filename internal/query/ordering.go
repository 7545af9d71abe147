package query

import "strings"

// DefaultOrder sorts by title ascending, the fallback whenever the caller
// supplies no usable ordering.
const DefaultOrder = "product_title ASC"

// orderColumns is the closed allow-list of sortable fields. Tokens outside
// this list are dropped, never used verbatim as column references.
var orderColumns = map[string]string{
	"title":       "product_title",
	"category":    "category_name",
	"subcategory": "subcategory_name",
	"stock":       "stock",
	"price":       "suggested_price",
	"sku":         "sku",
	"color":       "color_name",
	"size":        "size",
	"warehouse":   "warehouse",
	"status":      "product_status",
}

// CompileOrdering maps sort tokens (a leading '-' means descending) to an
// ORDER BY column list and returns the tokens it dropped. An empty result
// falls back to DefaultOrder. Equal sort keys have no tie-break beyond what
// the store provides; callers needing total order should end with a unique
// field such as sku.
func CompileOrdering(fields []string) (clause string, ignored []string) {
	var parts []string
	for _, raw := range fields {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		direction := "ASC"
		if strings.HasPrefix(token, "-") {
			direction = "DESC"
			token = token[1:]
		}
		column, ok := orderColumns[token]
		if !ok {
			ignored = append(ignored, raw)
			continue
		}
		parts = append(parts, column+" "+direction)
	}
	if len(parts) == 0 {
		return DefaultOrder, ignored
	}
	return strings.Join(parts, ", "), ignored
}
