package catalog

// DefaultPageSize is the number of plans per results page.
const DefaultPageSize = 6

// maxVisiblePages is the width of the page number window.
const maxVisiblePages = 5

// TotalPages returns ceil(n/size), never less than 1. A size below 1 is
// treated as 1.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ValidPage reports whether page is within 1..TotalPages(n, size).
func ValidPage(page, n, size int) bool {
	return page >= 1 && page <= TotalPages(n, size)
}

// Paginate returns the 1-based page of items at the given page size. Pages
// are not clamped: a page outside the valid range yields an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(page*size, len(items))
	return items[start:end]
}

// PageWindow returns the page numbers to display around current, at most
// five wide, shifted so the window stays inside 1..total.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return []int{1}
	}
	start := max(1, current-maxVisiblePages/2)
	end := min(total, start+maxVisiblePages-1)
	if end-start+1 < maxVisiblePages {
		start = max(1, end-maxVisiblePages+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
