package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(-1))
	assert.Equal(t, 50, NormalizePageSize(50))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 20, Offset(2, 20))
	assert.Equal(t, 90, Offset(10, 10))
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name            string
		page, size      int
		total           int
		wantPages       int
		wantHasNext     bool
		wantHasPrevious bool
	}{
		{"first of many", 1, 20, 100, 5, true, false},
		{"middle page", 3, 20, 100, 5, true, true},
		{"last page", 5, 20, 100, 5, false, true},
		{"partial last page rounds up", 2, 20, 21, 2, false, true},
		{"exactly one page", 1, 20, 20, 1, false, false},
		{"zero rows", 1, 20, 0, 0, false, false},
		{"zero rows on later page", 3, 20, 0, 0, false, false},
		{"page beyond last", 10, 20, 50, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.size, tt.total)

			assert.Equal(t, tt.page, info.Page)
			assert.Equal(t, tt.size, info.PageSize)
			assert.Equal(t, tt.total, info.TotalCount)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.wantHasNext, info.HasNext)
			assert.Equal(t, tt.wantHasPrevious, info.HasPrevious)
		})
	}
}
