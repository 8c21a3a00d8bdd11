package service

// PageRequest is a zero-based page plus a page size. Handlers clamp
// both before calling in, services trust the values.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) offset() int {
	return p.Page * p.Size
}

// Page is one page of results plus the totals the frontend needs to
// render a pager.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func newPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
