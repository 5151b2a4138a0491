// pkg/client/client.go

// Package client provides a Go client for the catalog API: a thin HTTP
// wrapper plus the fetch controller and incremental list presenter that
// drive search, sorting and infinite-scroll pagination against it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// Item mirrors the catalog item wire shape.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// Pagination mirrors the pagination block of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ListResponse is the body of a successful list request.
type ListResponse struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// APIError reports a non-success HTTP status from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// FetchParams holds the parameters of one list fetch. Zero values resolve
// to the server defaults (page 1, limit 10, default sort). Append selects
// the merge discipline: pagination continuations append, new searches and
// sort changes replace.
type FetchParams struct {
	Query  string
	Page   int
	Limit  int
	Sort   string
	Append bool
}

// Snapshot is a point-in-time copy of the controller's state.
type Snapshot struct {
	Items      []Item
	Loading    bool
	Error      string
	Pagination *Pagination
}

// Client is the fetch controller: it issues list queries and maintains the
// merged item collection, loading flag, last error and pagination state.
// Safe for concurrent use. Responses of superseded requests are discarded,
// so rapid search keystrokes cannot overwrite newer state with older data.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger

	mu         sync.Mutex
	gen        uint64
	items      []Item
	loading    bool
	errMsg     string
	pagination *Pagination
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l.With(slog.String("component", "catalog_client")) }
}

// New creates a catalog client against the given base URL
// (e.g. "http://localhost:3001").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the controller's current state.
func (c *Client) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	copy(items, c.items)

	var pagination *Pagination
	if c.pagination != nil {
		p := *c.pagination
		pagination = &p
	}

	return Snapshot{
		Items:      items,
		Loading:    c.loading,
		Error:      c.errMsg,
		Pagination: pagination,
	}
}

// FetchItems issues a list query and merges the result into the held
// collection. On failure the error message is recorded and the collection
// is left untouched; there is no automatic retry. On success the result is
// appended (id-deduplicated, existing order preserved) when params.Append
// is set and the page is past the first, and replaces the collection
// wholesale otherwise. Pagination is always replaced.
func (c *Client) FetchItems(ctx context.Context, params FetchParams) error {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.Sort == "" {
		params.Sort = "default"
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	resp, err := c.doList(ctx, params)
	if err != nil {
		c.finishWithError(gen, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer fetch superseded this one; drop the stale result.
		return nil
	}

	if params.Append && params.Page > 1 {
		c.items = mergeByID(c.items, resp.Items)
	} else {
		c.items = resp.Items
	}
	c.pagination = &resp.Pagination
	c.loading = false

	return nil
}

// SearchItems fetches page 1 for a query, replacing the collection.
func (c *Client) SearchItems(ctx context.Context, query, sort string) error {
	return c.FetchItems(ctx, FetchParams{Query: query, Page: 1, Sort: sort})
}

// LoadPage fetches the given page, appending past page 1.
func (c *Client) LoadPage(ctx context.Context, page int, sort string) error {
	return c.FetchItems(ctx, FetchParams{Page: page, Sort: sort, Append: page > 1})
}

// SortItems fetches page 1 with a new sort order, replacing the collection.
func (c *Client) SortItems(ctx context.Context, sort string) error {
	return c.FetchItems(ctx, FetchParams{Page: 1, Sort: sort})
}

// LoadMoreItems fetches a pagination continuation at the infinite-scroll
// page size, appending to the collection.
func (c *Client) LoadMoreItems(ctx context.Context, page int, sort, query string) error {
	return c.FetchItems(ctx, FetchParams{
		Query:  query,
		Page:   page,
		Limit:  20,
		Sort:   sort,
		Append: true,
	})
}

// GetItem fetches a single item by id.
func (c *Client) GetItem(ctx context.Context, id int64) (*Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/items/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &APIError{Status: res.StatusCode}
	}

	var item Item
	if err := json.NewDecoder(res.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}

func (c *Client) doList(ctx context.Context, params FetchParams) (*ListResponse, error) {
	query := url.Values{}
	query.Set("q", params.Query)
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("sort", params.Sort)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/items?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &APIError{Status: res.StatusCode}
	}

	var body ListResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &body, nil
}

// finishWithError records a fetch failure unless a newer fetch has already
// superseded this one. The item collection is never touched on failure.
func (c *Client) finishWithError(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.errMsg = err.Error()
	c.loading = false

	c.logger.Warn("fetch failed", slog.String("error", err.Error()))
}

// mergeByID appends the incoming items that are not already present,
// preserving the existing collection's order and appending genuinely new
// items after it.
func mergeByID(existing, incoming []Item) []Item {
	seen := make(map[int64]struct{}, len(existing))
	for _, item := range existing {
		seen[item.ID] = struct{}{}
	}

	merged := existing
	for _, item := range incoming {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		merged = append(merged, item)
	}
	return merged
}
