package listview

// Pagination tracks which page of a list is shown.
// TotalPages is always at least 1, even for an empty list.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
}

// TotalPages returns max(1, ceil(total/size)).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// InRange reports whether n is a valid page for the current total.
func (p Pagination) InRange(n int) bool {
	return n >= 1 && n <= p.TotalPages
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) Prev() int     { return p.Page - 1 }
func (p Pagination) Next() int     { return p.Page + 1 }

// Visible reports whether pagination controls should be rendered at all.
func (p Pagination) Visible() bool { return p.TotalPages > 1 }

// Pages lists every page number, 1 through TotalPages.
func (p Pagination) Pages() []int {
	total := p.TotalPages
	if total < 1 {
		total = 1
	}
	out := make([]int, total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
