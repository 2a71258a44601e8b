package paginator

import "math"

const (
	// DefaultPage is used when an invalid page number is provided.
	DefaultPage = 1
	// DefaultLimit is the page size used when an invalid limit is provided.
	DefaultLimit = 20
	// MaxLimit caps the page size to bound a single query.
	MaxLimit = 200
)

// PaginateQuery contains pagination parameters for a request.
type PaginateQuery struct {
	Page  int   `json:"page" form:"page"`   // 1-indexed page number
	Limit int64 `json:"limit" form:"limit"` // items per page
}

// Adjust normalizes the pagination parameters to valid values.
func (p *PaginateQuery) Adjust() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	} else if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset returns the number of items to skip for the current page.
func (p PaginateQuery) Offset() int64 {
	return int64(p.Page-1) * p.Limit
}

// Paginator contains pagination metadata for a query result.
type Paginator struct {
	Total       int64 `json:"total"`
	Count       int64 `json:"count"`
	PerPage     int64 `json:"per_page"`
	CurrentPage int   `json:"current_page"`
}

// New builds a Paginator from a query and its results.
func New(q PaginateQuery, total int64, count int) Paginator {
	return Paginator{
		Total:       total,
		Count:       int64(count),
		PerPage:     q.Limit,
		CurrentPage: q.Page,
	}
}

// TotalPages returns the number of pages implied by Total and PerPage.
func (p Paginator) TotalPages() int {
	if p.Total == 0 || p.PerPage == 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.PerPage)))
}

// HasNextPage reports whether a next page exists.
func (p Paginator) HasNextPage() bool {
	return p.CurrentPage < p.TotalPages()
}

// HasPreviousPage reports whether a previous page exists.
func (p Paginator) HasPreviousPage() bool {
	return p.CurrentPage > 1
}
