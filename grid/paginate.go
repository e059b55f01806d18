package grid

import (
	"time"

	"sichat/api"
)

// PageSizes are the selectable rows-per-page values
var PageSizes = []int{5, 10, 20, 50}

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 5

// Page is a window onto a table's rows. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
	Total  int
	Start  int // first row index, inclusive
	End    int // last row index, exclusive
}

// Pages returns the number of pages, at least 1
func (p Page) Pages() int {
	if p.Total == 0 || p.Size <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Paginate clamps page into range and returns the row window for it
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page{Size: size, Total: max(total, 0)}
	p.Number = min(max(page, 1), p.Pages())
	p.Start = min((p.Number-1)*size, p.Total)
	p.End = min(p.Start+size, p.Total)
	return p
}

// NextPageSize cycles through PageSizes
func NextPageSize(size int) int {
	for i, s := range PageSizes {
		if s == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}

// ValidPageSize reports whether size is one of PageSizes
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// HistoryTimeLayout is how conversation timestamps are shown
const HistoryTimeLayout = "02 January 2006, 15:04:05"

// FormatTimestamp formats a backend ISO timestamp for display. Values that
// do not parse are returned unchanged.
func FormatTimestamp(iso string, loc *time.Location) string {
	t, ok := api.ParseTimestamp(iso)
	if !ok {
		return iso
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(HistoryTimeLayout)
}
