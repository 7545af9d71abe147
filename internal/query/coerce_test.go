package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"plain", "19.99", ptrFloat(19.99)},
		{"whitespace trimmed", "  4.5 ", ptrFloat(4.5)},
		{"integer string", "12", ptrFloat(12)},
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"garbage", "N/A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"plain", "144", ptrInt(144)},
		{"negative", "-3", ptrInt(-3)},
		{"whitespace trimmed", " 7 ", ptrInt(7)},
		{"empty", "", nil},
		{"decimal rejected", "1.5", nil},
		{"garbage", "lots", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInt(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestUnescapeText(t *testing.T) {
	assert.Equal(t, "Tee & Polo", UnescapeText("Tee &amp; Polo"))
	assert.Equal(t, `60% cotton, 40% poly`, UnescapeText("60&#37; cotton, 40&#37; poly"))
	assert.Equal(t, "plain text", UnescapeText("plain text"))
	assert.Equal(t, "", UnescapeText(""))
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(n int) *int          { return &n }
