// Package listing is the stateful filter/sort/paginate controller shared by
// list views. It owns the current filter descriptor, debounces search-term
// changes, and discards stale in-flight results.
package listing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/query"
)

const DefaultDebounce = 800 * time.Millisecond

type Page[T any] struct {
	Items []T
	Total int
}

type FetchFunc[T any] func(ctx context.Context, f query.Filter) (Page[T], error)

// ResultFunc receives each page that survives the staleness guard.
type ResultFunc[T any] func(page Page[T], f query.Filter)

// DateRange carries both bounds; the query layer rejects half-open ranges.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FilterPatch updates only the fields it carries.
type FilterPatch struct {
	Status     *string
	DateRange  *DateRange
	SearchTerm *string
	SortBy     *string
	SortOrder  *string
}

type PaginationPatch struct {
	Page  *int
	Limit *int
}

type Controller[T any] struct {
	mu       sync.Mutex
	fetch    FetchFunc[T]
	onResult ResultFunc[T]
	debounce time.Duration

	filter query.Filter
	page   int
	limit  int

	timer *time.Timer
	// gen invalidates in-flight fetches: a result is delivered only when its
	// generation still matches.
	gen uint64
}

func New[T any](fetch FetchFunc[T], onResult ResultFunc[T]) *Controller[T] {
	return NewWithDebounce(fetch, onResult, DefaultDebounce)
}

func NewWithDebounce[T any](fetch FetchFunc[T], onResult ResultFunc[T], debounce time.Duration) *Controller[T] {
	return &Controller[T]{
		fetch:    fetch,
		onResult: onResult,
		debounce: debounce,
		page:     1,
		limit:    query.DefaultLimit,
	}
}

// Filter snapshots the current descriptor with pagination applied.
func (c *Controller[T]) Filter() query.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentFilter()
}

func (c *Controller[T]) currentFilter() query.Filter {
	f := c.filter
	f.Limit = c.limit
	f.Offset = (c.page - 1) * c.limit
	return f
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// UpdateFilters applies the patch and resets to page 1. A patch that only
// touches the search term is debounced; anything else fetches immediately.
func (c *Controller[T]) UpdateFilters(ctx context.Context, patch FilterPatch) {
	c.mu.Lock()

	searchOnly := patch.SearchTerm != nil &&
		patch.Status == nil && patch.DateRange == nil &&
		patch.SortBy == nil && patch.SortOrder == nil

	if patch.Status != nil {
		c.filter.Status = *patch.Status
	}
	if patch.DateRange != nil {
		start, end := patch.DateRange.Start, patch.DateRange.End
		c.filter.DateFrom, c.filter.DateTo = &start, &end
	}
	if patch.SearchTerm != nil {
		c.filter.SearchTerm = *patch.SearchTerm
	}
	if patch.SortBy != nil {
		c.filter.SortBy = *patch.SortBy
	}
	if patch.SortOrder != nil {
		c.filter.SortOrder = *patch.SortOrder
	}
	c.page = 1

	if searchOnly {
		c.scheduleLocked(ctx)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.PerformSearch(ctx, false)
}

func (c *Controller[T]) UpdatePagination(ctx context.Context, patch PaginationPatch) {
	c.mu.Lock()
	if patch.Limit != nil && *patch.Limit > 0 {
		c.limit = *patch.Limit
		c.page = 1
	}
	if patch.Page != nil && *patch.Page >= 1 {
		c.page = *patch.Page
	}
	c.mu.Unlock()
	c.PerformSearch(ctx, false)
}

func (c *Controller[T]) ResetFilters(ctx context.Context) {
	c.mu.Lock()
	c.filter = query.Filter{}
	c.page = 1
	c.mu.Unlock()
	c.PerformSearch(ctx, false)
}

// scheduleLocked (re)arms the debounce timer; a newer keystroke supersedes
// the pending one.
func (c *Controller[T]) scheduleLocked(ctx context.Context) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.PerformSearch(ctx, false)
	})
}

// PerformSearch fetches the current page. forceRefresh additionally drops any
// pending debounced fetch so exactly one request goes out.
func (c *Controller[T]) PerformSearch(ctx context.Context, forceRefresh bool) {
	c.mu.Lock()
	if forceRefresh && c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	gen := c.gen
	f := c.currentFilter()
	c.mu.Unlock()

	go func() {
		page, err := c.fetch(ctx, f)
		if err != nil {
			zap.L().Error("listing fetch failed", zap.Error(err))
			return
		}

		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			// A newer search superseded this one; its result must not
			// overwrite newer state.
			return
		}
		c.onResult(page, f)
	}()
}
