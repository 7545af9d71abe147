package query

// DefaultPageSize is used when the caller supplies no positive page size.
const DefaultPageSize = 20

// NormalizePage clamps a page number to 1-based.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// NormalizePageSize clamps a page size to a positive value.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

// Offset returns the row offset for a 1-based page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// PageInfo is the pagination metadata returned alongside every page slice.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// NewPageInfo computes pagination metadata. With zero matching rows it
// reports zero pages and no neighbours, never a division error. There is
// no upper clamp on page: a page beyond the last simply has no next page.
func NewPageInfo(page, size, total int) PageInfo {
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return PageInfo{
		Page:        page,
		PageSize:    size,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
}
