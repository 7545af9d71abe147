package query

import (
	"fmt"
	"sort"
	"strings"
)

// FilterRequest is the caller-supplied specification for the paginated
// filter operation. Filters use "<field>__<operator>" keys.
type FilterRequest struct {
	Filters  map[string]interface{} `json:"filters"`
	Ordering []string               `json:"ordering"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Search   string                 `json:"search"`
}

// FieldClass determines which operators a filterable field accepts.
type FieldClass int

const (
	// TextField supports icontains and exact.
	TextField FieldClass = iota
	// EnumField supports exact and in.
	EnumField
	// NumericField supports gte, lte, gt and lt.
	NumericField
)

type filterField struct {
	column string
	class  FieldClass
}

// filterFields is the closed allow-list of filterable fields. A key absent
// here can never reach the generated SQL.
var filterFields = map[string]filterField{
	"title":       {"product_title", TextField},
	"description": {"product_description", TextField},
	"sku":         {"sku", TextField},
	"category":    {"category_name", TextField},
	"subcategory": {"subcategory_name", TextField},
	"color":       {"color_name", TextField},
	"size":        {"size", EnumField},
	"warehouse":   {"warehouse", EnumField},
	"status":      {"product_status", EnumField},
	"stock":       {"stock", NumericField},
	"price":       {"suggested_price", NumericField},
}

// compileFunc turns one (column, value) pair into a predicate fragment on
// the builder. It reports false when the value is unusable, in which case
// the filter is dropped.
type compileFunc func(b *WhereBuilder, column string, value interface{}) bool

// operatorTable maps each field class to its supported operators. The table
// is the complete enumeration of what the compiler can emit.
var operatorTable = map[FieldClass]map[string]compileFunc{
	TextField: {
		"icontains": compileIContains,
		"exact":     compileExact,
	},
	EnumField: {
		"exact": compileExact,
		"in":    compileIn,
	},
	NumericField: {
		"gte": compileCompare(">="),
		"lte": compileCompare("<="),
		"gt":  compileCompare(">"),
		"lt":  compileCompare("<"),
	},
}

// CompileFilters compiles a filter mapping into predicate fragments on the
// builder and returns the keys it dropped. Keys are compiled in sorted order
// so that parameter binding is deterministic regardless of map iteration.
// Nil and empty-string values mean "no filter" and are skipped silently;
// unknown keys, unknown operators and malformed values are dropped and
// reported so the caller can surface them in telemetry.
func CompileFilters(b *WhereBuilder, filters map[string]interface{}) (ignored []string) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := filters[key]
		if value == nil || value == "" {
			continue
		}

		name, op, found := strings.Cut(key, "__")
		if !found {
			ignored = append(ignored, key)
			continue
		}
		field, ok := filterFields[name]
		if !ok {
			ignored = append(ignored, key)
			continue
		}
		compile, ok := operatorTable[field.class][op]
		if !ok {
			ignored = append(ignored, key)
			continue
		}
		if !compile(b, field.column, value) {
			ignored = append(ignored, key)
		}
	}
	return ignored
}

// compileIContains emits a case-insensitive substring match. The value is
// wrapped in wildcard markers without escaping: caller-supplied % and _
// keep their LIKE meaning. That pass-through is a deliberate, tested
// contract of this compiler.
func compileIContains(b *WhereBuilder, column string, value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	b.Add(fmt.Sprintf("%s ILIKE %s", column, b.Bind("%"+s+"%")))
	return true
}

// compileExact emits a case-sensitive equality match.
func compileExact(b *WhereBuilder, column string, value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	b.Add(fmt.Sprintf("%s = %s", column, b.Bind(s)))
	return true
}

// compileIn emits a set-membership predicate with one bound parameter per
// element. Non-list and empty-list values are dropped, which is equivalent
// to omitting the filter.
func compileIn(b *WhereBuilder, column string, value interface{}) bool {
	var elems []string
	switch v := value.(type) {
	case []string:
		elems = v
	case []interface{}:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return false
			}
			elems = append(elems, s)
		}
	default:
		return false
	}
	if len(elems) == 0 {
		return false
	}

	placeholders := make([]string, len(elems))
	for i, e := range elems {
		placeholders[i] = b.Bind(e)
	}
	b.Add(fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")))
	return true
}

// compileCompare returns a compiler for one numeric comparison operator.
// The value is bound as supplied; multiple comparisons on the same field
// each emit their own predicate and AND together.
func compileCompare(op string) compileFunc {
	return func(b *WhereBuilder, column string, value interface{}) bool {
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return false
		}
		b.Add(fmt.Sprintf("%s %s %s", column, op, b.Bind(value)))
		return true
	}
}
