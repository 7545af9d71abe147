package query

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates predicate fragments and their bound parameters.
// Fragments AND together; parameters keep the exact order in which they were
// bound, so the same builder can drive both the count query and the page
// query of one logical read.
type WhereBuilder struct {
	conds []string
	args  []interface{}
}

// NewWhereBuilder returns an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Bind appends a parameter value and returns its positional placeholder.
func (b *WhereBuilder) Bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Add appends one predicate fragment.
func (b *WhereBuilder) Add(cond string) {
	b.conds = append(b.conds, cond)
}

// Clause returns the full WHERE clause, or the empty string when no
// predicate was added.
func (b *WhereBuilder) Clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the bound parameters in binding order.
func (b *WhereBuilder) Args() []interface{} {
	return b.args
}

// NextArg returns the positional index the next bound parameter would get.
// The page query uses it to place LIMIT/OFFSET placeholders after the
// shared predicate parameters.
func (b *WhereBuilder) NextArg() int {
	return len(b.args) + 1
}
