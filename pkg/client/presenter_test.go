// pkg/client/presenter_test.go
package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeController records calls and serves canned state. An optional delay
// simulates a slow backend for the minimum-skeleton tests.
type fakeController struct {
	mu     sync.Mutex
	calls  []string
	state  Snapshot
	delay  time.Duration
	params []FetchParams
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeController) FetchItems(ctx context.Context, params FetchParams) error {
	f.mu.Lock()
	f.params = append(f.params, params)
	f.mu.Unlock()
	f.record("fetch")
	return nil
}

func (f *fakeController) SearchItems(ctx context.Context, query, sort string) error {
	f.record("search:" + query)
	return nil
}

func (f *fakeController) SortItems(ctx context.Context, sort string) error {
	f.record("sort:" + sort)
	return nil
}

func (f *fakeController) LoadMoreItems(ctx context.Context, page int, sort, query string) error {
	f.mu.Lock()
	f.calls = append(f.calls, "loadmore")
	f.mu.Unlock()
	return nil
}

func (f *fakeController) State() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeController) setState(s Snapshot) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool, timeout time.Duration, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestListPresenter_Init_FetchesFirstScrollPage(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithMinLoading(0))
	defer p.Close()

	require.NoError(t, p.Init(context.Background()))

	require.Len(t, ctrl.params, 1)
	assert.Equal(t, FetchParams{Page: 1, Limit: 20, Sort: "default"}, ctrl.params[0])
}

func TestListPresenter_SetQuery_DebouncesRapidInput(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithDebounce(30*time.Millisecond), WithMinLoading(0))
	defer p.Close()

	ctx := context.Background()

	// Three keystrokes inside the quiet window collapse to one fetch.
	p.SetQuery(ctx, "l")
	p.SetQuery(ctx, "la")
	p.SetQuery(ctx, "lam")

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, ctrl.callList(), "nothing fires before the window elapses")

	waitFor(t, func() bool { return len(ctrl.callList()) == 1 },
		time.Second, "debounced search never fired")

	assert.Equal(t, []string{"search:lam"}, ctrl.callList())
	assert.Equal(t, "lam", p.Query())
}

func TestListPresenter_Search_BypassesDebounce(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithDebounce(time.Hour), WithMinLoading(0))
	defer p.Close()

	ctx := context.Background()

	p.SetQuery(ctx, "lamp")
	require.NoError(t, p.Search(ctx))

	assert.Equal(t, []string{"search:lamp"}, ctrl.callList())

	// The pending debounced fetch was canceled; nothing fires later.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, ctrl.callList(), 1)
}

func TestListPresenter_SetSort_ResetsToFirstPage(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithMinLoading(0))
	defer p.Close()

	require.NoError(t, p.SetSort(context.Background(), "price-desc"))
	assert.Equal(t, []string{"sort:price-desc"}, ctrl.callList())
}

func TestListPresenter_LoadMore(t *testing.T) {
	tests := []struct {
		name       string
		state      Snapshot
		startIndex int
		expectCall bool
	}{
		{
			name: "requests_next_page_when_idle_with_more_data",
			state: Snapshot{
				Pagination: &Pagination{HasNext: true},
			},
			startIndex: 20,
			expectCall: true,
		},
		{
			name: "skips_while_a_fetch_is_in_flight",
			state: Snapshot{
				Loading:    true,
				Pagination: &Pagination{HasNext: true},
			},
			startIndex: 20,
			expectCall: false,
		},
		{
			name: "skips_when_no_more_data",
			state: Snapshot{
				Pagination: &Pagination{HasNext: false},
			},
			startIndex: 20,
			expectCall: false,
		},
		{
			name:       "skips_before_the_first_fetch",
			state:      Snapshot{},
			startIndex: 0,
			expectCall: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			ctrl.setState(tt.state)

			p := NewListPresenter(ctrl, WithMinLoading(0))
			defer p.Close()

			require.NoError(t, p.LoadMore(context.Background(), tt.startIndex))

			if tt.expectCall {
				assert.Equal(t, []string{"loadmore"}, ctrl.callList())
			} else {
				assert.Empty(t, ctrl.callList())
			}
		})
	}
}

func TestListPresenter_IsItemLoaded(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithMinLoading(0))
	defer p.Close()

	// Before any fetch every index counts as loaded.
	assert.True(t, p.IsItemLoaded(0))

	ctrl.setState(Snapshot{
		Items:      make([]Item, 20),
		Pagination: &Pagination{HasNext: true},
	})
	assert.True(t, p.IsItemLoaded(19))
	assert.False(t, p.IsItemLoaded(20))

	ctrl.setState(Snapshot{
		Items:      make([]Item, 25),
		Pagination: &Pagination{HasNext: false},
	})
	assert.True(t, p.IsItemLoaded(9999), "no further data means nothing left to load")
}

func TestListPresenter_SkeletonHeldForMinimumDuration(t *testing.T) {
	ctrl := &fakeController{delay: 5 * time.Millisecond}
	p := NewListPresenter(ctrl, WithMinLoading(60*time.Millisecond))
	defer p.Close()

	require.NoError(t, p.Init(context.Background()))

	// The fetch finished fast, but the skeleton stays up for the remainder.
	assert.True(t, p.ShowSkeleton())

	waitFor(t, func() bool { return !p.ShowSkeleton() },
		time.Second, "skeleton never cleared")
}

func TestListPresenter_SkeletonClearsImmediatelyOnSlowFetch(t *testing.T) {
	ctrl := &fakeController{delay: 30 * time.Millisecond}
	p := NewListPresenter(ctrl, WithMinLoading(10*time.Millisecond))
	defer p.Close()

	require.NoError(t, p.Init(context.Background()))

	// Slower than the minimum: no lingering timer, cleared on arrival.
	assert.False(t, p.ShowSkeleton())
}

func TestListPresenter_Close_DropsPendingWork(t *testing.T) {
	ctrl := &fakeController{}
	p := NewListPresenter(ctrl, WithDebounce(20*time.Millisecond), WithMinLoading(0))

	p.SetQuery(context.Background(), "lamp")
	p.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, ctrl.callList(), "debounced fetch must not fire after Close")

	// Calls after Close are no-ops.
	p.SetQuery(context.Background(), "desk")
	require.NoError(t, p.Search(context.Background()))
	require.NoError(t, p.SetSort(context.Background(), "name-asc"))
	assert.Empty(t, ctrl.callList())

	// Closing twice is safe.
	p.Close()
}
