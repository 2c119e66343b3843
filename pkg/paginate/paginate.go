// Package paginate keeps page bookkeeping for a server-paged list and
// renders the windowed page-number strip used by the presenters.
package paginate

// Ellipsis marks a gap in a page-number sequence.
const Ellipsis = -1

const (
	DefaultPageSize   = 10
	DefaultMaxVisible = 7
)

// Paginator tracks the current position within a paged result set. The
// zero value is unusable; use New.
type Paginator struct {
	pageSize   int
	totalItems int
	current    int
}

func New(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize, current: 1}
}

// Set records a new total and clamps the current page into range. An
// empty result set still has one (empty) page.
func (p *Paginator) Set(totalItems, currentPage int) {
	if totalItems < 0 {
		totalItems = 0
	}
	p.totalItems = totalItems
	p.current = clamp(currentPage, 1, p.totalPages())
}

func (p *Paginator) totalPages() int {
	n := (p.totalItems + p.pageSize - 1) / p.pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Info is a snapshot of the paginator for rendering.
type Info struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PageSize    int
	HasPrev     bool
	HasNext     bool
	StartIndex  int // 0-based offset of the first item on the page
	EndIndex    int // exclusive end, clamped to TotalItems
}

func (p *Paginator) Info() Info {
	total := p.totalPages()
	end := p.current * p.pageSize
	if end > p.totalItems {
		end = p.totalItems
	}
	return Info{
		CurrentPage: p.current,
		TotalPages:  total,
		TotalItems:  p.totalItems,
		PageSize:    p.pageSize,
		HasPrev:     p.current > 1,
		HasNext:     p.current < total,
		StartIndex:  (p.current - 1) * p.pageSize,
		EndIndex:    end,
	}
}

// PageNumbers returns the page strip for current within totalPages:
// either every page when it fits in maxVisible, or the first page, the
// last page, a window of two around current, and Ellipsis markers for
// the gaps.
func PageNumbers(current, totalPages, maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	if totalPages < 1 {
		totalPages = 1
	}
	current = clamp(current, 1, totalPages)

	if totalPages <= maxVisible {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := []int{1}
	if current > 4 {
		pages = append(pages, Ellipsis)
	}
	start := max(2, current-2)
	end := min(totalPages-1, current+2)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if current < totalPages-3 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, totalPages)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
