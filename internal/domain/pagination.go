package domain

// DefaultPageSize is used when PaginationParams carries no usable page size.
const DefaultPageSize = 20

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the row limit for the query, falling back to DefaultPageSize
// when PageSize is not positive.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * Limit.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
