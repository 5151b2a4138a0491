// pkg/client/presenter.go
package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Presenter timing defaults and the fixed infinite-scroll page size.
const (
	DefaultDebounce   = 300 * time.Millisecond
	DefaultMinLoading = 500 * time.Millisecond
	scrollPageSize    = 20
)

// fetchController is the slice of the Client the presenter drives.
type fetchController interface {
	FetchItems(ctx context.Context, params FetchParams) error
	SearchItems(ctx context.Context, query, sort string) error
	SortItems(ctx context.Context, sort string) error
	LoadMoreItems(ctx context.Context, page int, sort, query string) error
	State() Snapshot
}

// ListPresenter orchestrates incremental loading for a scrolling item list:
// it debounces search input, keeps a skeleton indicator visible for a
// minimum duration on every triggered fetch, and derives the next page to
// request from the first unloaded index. All timers are tied to the
// presenter's lifetime; Close cancels them and no state changes after it.
type ListPresenter struct {
	ctrl       fetchController
	debounce   time.Duration
	minLoading time.Duration
	logger     *slog.Logger

	mu            sync.Mutex
	query         string
	sort          string
	skeleton      bool
	searchTimer   *time.Timer
	skeletonTimer *time.Timer
	closed        bool
}

// PresenterOption configures a ListPresenter.
type PresenterOption func(*ListPresenter)

// WithDebounce overrides the search debounce window.
func WithDebounce(d time.Duration) PresenterOption {
	return func(p *ListPresenter) { p.debounce = d }
}

// WithMinLoading overrides the minimum skeleton visibility duration.
func WithMinLoading(d time.Duration) PresenterOption {
	return func(p *ListPresenter) { p.minLoading = d }
}

// WithPresenterLogger sets the presenter logger.
func WithPresenterLogger(l *slog.Logger) PresenterOption {
	return func(p *ListPresenter) { p.logger = l.With(slog.String("component", "list_presenter")) }
}

// NewListPresenter creates a presenter over the given fetch controller.
func NewListPresenter(ctrl fetchController, opts ...PresenterOption) *ListPresenter {
	p := &ListPresenter{
		ctrl:       ctrl,
		debounce:   DefaultDebounce,
		minLoading: DefaultMinLoading,
		sort:       "default",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init loads the first page at the infinite-scroll page size.
func (p *ListPresenter) Init(ctx context.Context) error {
	p.mu.Lock()
	sort := p.sort
	p.mu.Unlock()

	return p.fetchWithSkeleton(ctx, func(ctx context.Context) error {
		return p.ctrl.FetchItems(ctx, FetchParams{Page: 1, Limit: scrollPageSize, Sort: sort})
	})
}

// SetQuery records a search input change and restarts the debounce timer:
// only the last change within a quiet window triggers a fetch. Any pending
// timer is canceled by the new input.
func (p *ListPresenter) SetQuery(ctx context.Context, query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.query = query
	if p.searchTimer != nil {
		p.searchTimer.Stop()
	}

	q, sort := query, p.sort
	p.searchTimer = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return
		}

		if err := p.fetchWithSkeleton(ctx, func(ctx context.Context) error {
			return p.ctrl.SearchItems(ctx, q, sort)
		}); err != nil {
			p.logger.Warn("debounced search failed", slog.String("error", err.Error()))
		}
	})
}

// Search runs the current query immediately, bypassing the debounce window
// and canceling any pending debounced fetch.
func (p *ListPresenter) Search(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.searchTimer != nil {
		p.searchTimer.Stop()
	}
	q, sort := p.query, p.sort
	p.mu.Unlock()

	return p.fetchWithSkeleton(ctx, func(ctx context.Context) error {
		return p.ctrl.SearchItems(ctx, q, sort)
	})
}

// SetSort changes the sort order and resets the list to page 1.
func (p *ListPresenter) SetSort(ctx context.Context, sort string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.sort = sort
	p.mu.Unlock()

	return p.fetchWithSkeleton(ctx, func(ctx context.Context) error {
		return p.ctrl.SortItems(ctx, sort)
	})
}

// LoadMore requests the next page for an infinite-scroll position. The page
// is the first unloaded index divided by the page size, plus one. Nothing
// is requested while a fetch is in flight or when the last known pagination
// says no more data exists.
func (p *ListPresenter) LoadMore(ctx context.Context, startIndex int) error {
	state := p.ctrl.State()
	if state.Loading || state.Pagination == nil || !state.Pagination.HasNext {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	q, sort := p.query, p.sort
	p.mu.Unlock()

	page := startIndex/scrollPageSize + 1
	return p.ctrl.LoadMoreItems(ctx, page, sort, q)
}

// IsItemLoaded reports whether the item at index needs no further fetch:
// it falls within the held collection, or no further data exists.
func (p *ListPresenter) IsItemLoaded(index int) bool {
	state := p.ctrl.State()
	if state.Pagination == nil || !state.Pagination.HasNext {
		return true
	}
	return index < len(state.Items)
}

// ShowSkeleton reports whether the skeleton indicator should be visible.
func (p *ListPresenter) ShowSkeleton() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skeleton
}

// Query returns the current search input.
func (p *ListPresenter) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Close cancels pending timers and freezes presenter state. Asynchronous
// completions arriving after Close are dropped.
func (p *ListPresenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.searchTimer != nil {
		p.searchTimer.Stop()
	}
	if p.skeletonTimer != nil {
		p.skeletonTimer.Stop()
	}
}

// fetchWithSkeleton runs a fetch keeping the skeleton indicator visible for
// at least the minimum loading duration from trigger. Responses slower than
// the minimum clear it immediately on arrival; faster ones leave it up until
// the remainder elapses.
func (p *ListPresenter) fetchWithSkeleton(ctx context.Context, do func(context.Context) error) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.skeleton = true
	if p.skeletonTimer != nil {
		p.skeletonTimer.Stop()
		p.skeletonTimer = nil
	}
	p.mu.Unlock()

	start := time.Now()
	err := do(ctx)
	remaining := p.minLoading - time.Since(start)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return err
	}

	if remaining > 0 {
		p.skeletonTimer = time.AfterFunc(remaining, func() {
			p.mu.Lock()
			if !p.closed {
				p.skeleton = false
			}
			p.mu.Unlock()
		})
	} else {
		p.skeleton = false
	}

	return err
}
