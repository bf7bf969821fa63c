// Package pagination wraps a counted, ordered query into a page with navigation metadata.
package pagination

import (
	"context"
	"fmt"
)

const (
	DefaultPageSize      = 5
	DefaultNavigatePages = 5
)

// Request selects a page. PageNum is 1-based; values below 1 are clamped to 1.
type Request struct {
	PageNum       int
	PageSize      int
	NavigatePages int
}

// Page is one page of results plus the metadata a list view needs for its navigation links.
type Page[T any] struct {
	PageNum           int   `json:"pageNum"`
	PageSize          int   `json:"pageSize"`
	Size              int   `json:"size"`
	StartRow          int64 `json:"startRow"`
	EndRow            int64 `json:"endRow"`
	Total             int64 `json:"total"`
	Pages             int   `json:"pages"`
	List              []T   `json:"list"`
	PrePage           int   `json:"prePage"`
	NextPage          int   `json:"nextPage"`
	IsFirstPage       bool  `json:"isFirstPage"`
	IsLastPage        bool  `json:"isLastPage"`
	HasPreviousPage   bool  `json:"hasPreviousPage"`
	HasNextPage       bool  `json:"hasNextPage"`
	NavigatePages     int   `json:"navigatePages"`
	NavigatePageNums  []int `json:"navigatepageNums"`
	NavigateFirstPage int   `json:"navigateFirstPage"`
	NavigateLastPage  int   `json:"navigateLastPage"`
}

// CountFunc returns the total number of rows of the full result set.
type CountFunc func(ctx context.Context) (int64, error)

// FetchFunc returns at most limit rows of the full ordered result set, starting at offset.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Normalize fills defaults and clamps the page number.
func (r Request) Normalize() Request {
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.NavigatePages <= 0 {
		r.NavigatePages = DefaultNavigatePages
	}
	if r.PageNum < 1 {
		r.PageNum = 1
	}
	return r
}

// Offset is the number of rows before the requested page.
func (r Request) Offset() int {
	return (r.PageNum - 1) * r.PageSize
}

// Paginate counts the full result set, then fetches the requested page. A page past the
// end is not an error: its list is empty and its metadata still describes the result set.
func Paginate[T any](ctx context.Context, req Request, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	req = req.Normalize()

	total, err := count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	// compare page numbers, not offsets: (PageNum-1)*PageSize can overflow for huge pn
	items := make([]T, 0)
	if pages := (total + int64(req.PageSize) - 1) / int64(req.PageSize); int64(req.PageNum) <= pages {
		items, err = fetch(ctx, req.PageSize, req.Offset())
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", req.PageNum, err)
		}
	}

	return NewPage(req, total, items), nil
}

// NewPage computes the metadata of a page holding items out of total rows.
func NewPage[T any](req Request, total int64, items []T) *Page[T] {
	req = req.Normalize()
	if items == nil {
		items = make([]T, 0)
	}

	pages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	p := &Page[T]{
		PageNum:       req.PageNum,
		PageSize:      req.PageSize,
		Size:          len(items),
		Total:         total,
		Pages:         pages,
		List:          items,
		NavigatePages: req.NavigatePages,
	}

	if p.Size > 0 {
		p.StartRow = int64(req.Offset()) + 1
		p.EndRow = p.StartRow - 1 + int64(p.Size)
	}

	p.NavigatePageNums = NavigateWindow(req.PageNum, pages, req.NavigatePages)
	if n := len(p.NavigatePageNums); n > 0 {
		p.NavigateFirstPage = p.NavigatePageNums[0]
		p.NavigateLastPage = p.NavigatePageNums[n-1]
	}

	if req.PageNum > 1 {
		p.PrePage = req.PageNum - 1
	}
	if req.PageNum < pages {
		p.NextPage = req.PageNum + 1
	}
	p.IsFirstPage = req.PageNum == 1
	p.IsLastPage = req.PageNum == pages || pages == 0
	p.HasPreviousPage = req.PageNum > 1
	p.HasNextPage = req.PageNum < pages
	return p
}

// NavigateWindow returns up to width consecutive page numbers centered on current
// and kept inside [1, pages].
func NavigateWindow(current, pages, width int) []int {
	if pages <= 0 || width <= 0 {
		return []int{}
	}
	if pages <= width {
		return seq(1, pages)
	}

	start := current - width/2
	switch {
	case start < 1:
		return seq(1, width)
	case current > pages-width/2:
		return seq(pages-width+1, pages)
	default:
		return seq(start, start+width-1)
	}
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
