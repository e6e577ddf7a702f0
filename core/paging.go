package core

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps the requested page: number >= 1, 1 <= size <= maxSize (size falls back to defaultSize).
func NewPage(number, size, defaultSize, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(p Page, total int) Pagination {
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return Pagination{Page: p.Number, Limit: p.Size, Total: total, Pages: pages}
}
