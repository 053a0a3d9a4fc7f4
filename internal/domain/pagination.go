package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
// Page is 0-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Validate reports an *InvalidArgumentError for a negative page, a non-positive page size,
// or a page whose offset would not fit in an int.
func (p PaginationParams) Validate() error {
	if p.Page < 0 {
		return NewInvalidArgument("page", "must be >= 0")
	}
	if p.PageSize <= 0 {
		return NewInvalidArgument("page_size", "must be > 0")
	}
	if p.Page > math.MaxInt/p.PageSize {
		return NewInvalidArgument("page", "is out of range")
	}
	return nil
}

// Offset returns the row offset for the current page.
// Formula: Page * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.PageSize
}

// Page is one slice of an ordered result set plus the total match count.
// swagger:model Page
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a Page from the items of the current page and the total match count.
// TotalPages is ceiling(total / pageSize); a nil items slice becomes empty.
func NewPage[T any](items []T, total int, p PaginationParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
