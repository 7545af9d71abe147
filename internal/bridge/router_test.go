package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantKind CommandKind
		wantArg  string
	}{
		{"explicit sku", "tell me about sku B15453", KindProduct, "b15453"},
		{"bare numeric code", "is 1234567 available?", KindProduct, "1234567"},
		{"item reference", "check item b64000l for me", KindProduct, "b64000l"},
		{"stats question", "give me an inventory breakdown by color", KindStats, ""},
		{"how many", "how many products do you have?", KindStats, ""},
		{"filter question", "show me red shirts under $20", KindAdvancedFilter, ""},
		{"sort question", "list hoodies sort by price", KindAdvancedFilter, ""},
		{"categories question", "what categories do you sell?", KindCategories, ""},
		{"low stock question", "which products are running low?", KindLowStock, ""},
		{"product keyword search", "do you have any hoodies?", KindSearch, "hoodie"},
		{"unroutable", "hello there", KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Classify(tt.question)

			assert.Equal(t, tt.wantKind, cmd.Kind)
			assert.Equal(t, tt.wantArg, cmd.Arg)
		})
	}
}

func TestClassifyRejectsImplausibleSKU(t *testing.T) {
	// "about it" captures "it", which is too short to be a SKU, so the
	// question must not route to a product lookup.
	cmd := Classify("what do you think about it")
	assert.NotEqual(t, KindProduct, cmd.Kind)
}

func TestParseLLMCommand(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantKind CommandKind
		wantArg  string
	}{
		{"sku command", "SKU:B15453", KindProduct, "B15453"},
		{"search command with spaces", "  SEARCH: blue shirts  ", KindSearch, "blue shirts"},
		{"filter degrades to search", "FILTER:red hoodies", KindSearch, "red hoodies"},
		{"categories", "CATEGORIES", KindCategories, ""},
		{"low stock", "LOW_STOCK", KindLowStock, ""},
		{"stats", "STATS", KindStats, ""},
		{"prose reply", "I think you want to search for shirts.", KindUnknown, ""},
		{"empty reply", "", KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseLLMCommand(tt.reply)

			assert.Equal(t, tt.wantKind, cmd.Kind)
			assert.Equal(t, tt.wantArg, cmd.Arg)
		})
	}
}
