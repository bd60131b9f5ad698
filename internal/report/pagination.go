package report

import "math"

// Pagination describes one page of the report. Pages are numbered from 0,
// as in the page request parameter.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"page"`
	PageSize    int   `json:"per_page"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
	PrevPage    int   `json:"prev_page"`
	NextPage    int   `json:"next_page"`
}

// Offset is the rank of the first row of the page.
func (p Pagination) Offset() int {
	return p.CurrentPage * p.PageSize
}

// CalculatePagination clamps page into the available pages.
func CalculatePagination(total int64, page, pageSize int) Pagination {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	if page < 0 {
		page = 0
	}
	if totalPages > 0 && page > totalPages-1 {
		page = totalPages - 1
	}
	if totalPages == 0 {
		page = 0
	}

	return Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
		HasPrev:     page > 0,
		HasNext:     page < totalPages-1,
		PrevPage:    max(page-1, 0),
		NextPage:    min(page+1, max(totalPages-1, 0)),
	}
}
