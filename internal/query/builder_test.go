package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilderEmpty(t *testing.T) {
	b := NewWhereBuilder()

	assert.Equal(t, "", b.Clause())
	assert.Empty(t, b.Args())
	assert.Equal(t, 1, b.NextArg())
}

func TestWhereBuilderBindOrder(t *testing.T) {
	b := NewWhereBuilder()

	assert.Equal(t, "$1", b.Bind("first"))
	assert.Equal(t, "$2", b.Bind(42))
	assert.Equal(t, 3, b.NextArg())
	assert.Equal(t, []interface{}{"first", 42}, b.Args())
}

func TestWhereBuilderClauseJoinsWithAnd(t *testing.T) {
	b := NewWhereBuilder()
	b.Add("stock > " + b.Bind(0))
	b.Add("warehouse = " + b.Bind("IL"))

	assert.Equal(t, "WHERE stock > $1 AND warehouse = $2", b.Clause())
	assert.Equal(t, []interface{}{0, "IL"}, b.Args())
}
