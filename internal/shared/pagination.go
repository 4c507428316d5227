package shared

// Page size limits for listings.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata. perPage is capped at
// MaxPerPage and page is clamped to the last page, so Bounds always
// yields valid slice indexes.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	if page <= 0 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the slice indexes of the current page within total items.
func (p Pagination) Bounds() (int, int) {
	start := (p.Page - 1) * p.PerPage
	if start < 0 || start > p.Total {
		start = p.Total
	}
	end := start + p.PerPage
	if end < start || end > p.Total {
		end = p.Total
	}
	return start, end
}
