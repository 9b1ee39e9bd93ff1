// Package pagination derives page counts and navigation bounds for
// paginated job listings.
package pagination

// TotalPages returns the number of pages needed to show totalCount items at
// pageSize per page. Zero items means zero pages (no pager is rendered).
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Pager captures the pagination position of a loaded result page. When the
// server supplied its own has-next/has-previous flags they take precedence
// over client-side derivation, since the server knows filtering nuances the
// client cannot see.
type Pager struct {
	Page       int
	PageSize   int
	TotalCount int

	ServerHasNext     *bool
	ServerHasPrevious *bool
}

func (p Pager) TotalPages() int {
	return TotalPages(p.TotalCount, p.PageSize)
}

func (p Pager) CanGoPrevious() bool {
	if p.ServerHasPrevious != nil {
		return *p.ServerHasPrevious
	}
	return p.Page > 1
}

func (p Pager) CanGoNext() bool {
	if p.ServerHasNext != nil {
		return *p.ServerHasNext
	}
	return p.Page < p.TotalPages()
}

// CanNavigateTo reports whether page addresses a valid slice of the current
// result set. Out-of-range targets are rejected rather than clamped so a
// caller bug stays visible.
func (p Pager) CanNavigateTo(page int) bool {
	return page >= 1 && page <= p.TotalPages()
}
