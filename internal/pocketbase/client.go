// Package pocketbase implements the Order Repository client against the
// hosted record API.
//
// The API exposes collections under /api/collections/<name>/records with
// server-side pagination (1-based page, perPage), sorting (field name,
// "-" prefix for descending) and filtering via the expression grammar
// produced by the filter package.
//
// Required Environment Variables:
//   - POCKETBASE_URL: Base URL of the record store (e.g. "https://get.piksel.lt")
//   - POCKETBASE_COLLECTION: Orders collection name (default "orders")
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"piksel-orders/internal/cache"
	"piksel-orders/internal/filter"
	"piksel-orders/internal/logger"
	"piksel-orders/pkg/models"
)

const (
	// DefaultPerPage matches the dashboard's listing page size.
	DefaultPerPage = 20

	// DefaultSort lists most recently updated orders first.
	DefaultSort = "-updated"

	// quotesCollection holds quote documents linked to orders.
	quotesCollection = "quotes"
)

// ListParams are the query parameters of a paginated listing request.
type ListParams struct {
	Page    int    // 1-based; 0 means first page
	PerPage int    // 0 means DefaultPerPage
	Sort    string // field name, "-" prefix descends; empty means DefaultSort
	Filter  string // expression per the filter package; empty matches all
}

// OrderList is one page of listing results.
type OrderList struct {
	Items      []models.Order `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

// Client talks to the record store. List responses are cached briefly;
// every mutation clears the cache so listings never serve stale rows.
type Client struct {
	baseURL    string
	collection string
	http       *http.Client
	cache      *cache.Cache
	log        zerolog.Logger
}

// NewClient creates a repository client for the given base URL and orders
// collection name.
func NewClient(baseURL, collection string) *Client {
	return &Client{
		baseURL:    baseURL,
		collection: collection,
		http:       &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(cache.DefaultTTL, cache.DefaultMaxSize),
		log:        logger.WithComponent("pocketbase"),
	}
}

// StartCacheSweeper launches the cache's background sweep, tied to ctx.
func (c *Client) StartCacheSweeper(ctx context.Context) {
	c.cache.StartSweeper(ctx)
}

// List returns one page of orders matching params.
func (c *Client) List(ctx context.Context, params ListParams) (*OrderList, error) {
	const op = "List"

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = DefaultPerPage
	}
	if params.Sort == "" {
		params.Sort = DefaultSort
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("perPage", strconv.Itoa(params.PerPage))
	q.Set("sort", params.Sort)
	if params.Filter != "" {
		q.Set("filter", params.Filter)
	}
	key := q.Encode()
	if cached, ok := c.cache.Get(key); ok {
		list := cached.(OrderList)
		return &list, nil
	}

	var list OrderList
	if err := c.do(ctx, op, http.MethodGet, c.recordsURL(c.collection)+"?"+key, nil, &list); err != nil {
		return nil, err
	}

	c.cache.Set(key, list, 0)
	return &list, nil
}

// Get fetches a single order by id.
func (c *Client) Get(ctx context.Context, id string) (*models.Order, error) {
	const op = "Get"

	var order models.Order
	if err := c.do(ctx, op, http.MethodGet, c.recordURL(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Search runs the fixed quick-search disjunction over client, agency and
// order number.
func (c *Client) Search(ctx context.Context, query string) ([]models.Order, error) {
	const op = "Search"

	q := url.Values{}
	q.Set("filter", filter.SearchExpression(query))

	var list OrderList
	if err := c.do(ctx, op, http.MethodGet, c.recordsURL(c.collection)+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Create inserts a new order and returns the stored record.
func (c *Client) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	const op = "Create"

	var created models.Order
	if err := c.do(ctx, op, http.MethodPost, c.recordsURL(c.collection), order, &created); err != nil {
		return nil, err
	}
	c.cache.Clear()
	return &created, nil
}

// Update applies a partial update to an order. Only the fields present in
// fields are touched, so single-flag toggles stay cheap.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (*models.Order, error) {
	const op = "Update"

	var updated models.Order
	if err := c.do(ctx, op, http.MethodPatch, c.recordURL(id), fields, &updated); err != nil {
		return nil, err
	}
	c.cache.Clear()
	return &updated, nil
}

// Delete removes an order.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "Delete"

	if err := c.do(ctx, op, http.MethodDelete, c.recordURL(id), nil, nil); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

// QuoteByOrderID returns the order's quote document, or nil when the order
// has none. Lookup failures degrade to nil as well; a missing quote must
// never break the detail view.
func (c *Client) QuoteByOrderID(ctx context.Context, orderID string) *models.Quote {
	const op = "QuoteByOrderID"

	q := url.Values{}
	q.Set("filter", fmt.Sprintf(`order_id="%s"`, orderID))
	q.Set("perPage", "1")

	var list struct {
		Items []models.Quote `json:"items"`
	}
	if err := c.do(ctx, op, http.MethodGet, c.recordsURL(quotesCollection)+"?"+q.Encode(), nil, &list); err != nil {
		c.log.Warn().Err(err).Str("order_id", orderID).Msg("Quote lookup failed")
		return nil
	}
	if len(list.Items) == 0 {
		return nil
	}
	return &list.Items[0]
}

// SumApproved totals the final prices of approved orders in the filtered
// set, from a capped snapshot of up to 200 rows. Failures degrade to zero;
// the headline sum is informational, never load-bearing.
func (c *Client) SumApproved(ctx context.Context, filterExpr string) float64 {
	list, err := c.List(ctx, ListParams{Page: 1, PerPage: 200, Sort: DefaultSort, Filter: filterExpr})
	if err != nil {
		c.log.Warn().Err(err).Msg("Approved-sum snapshot failed")
		return 0
	}

	var sum float64
	for _, o := range list.Items {
		if o.Approved {
			sum += o.FinalPrice
		}
	}
	return sum
}

func (c *Client) recordsURL(collection string) string {
	return fmt.Sprintf("%s/api/collections/%s/records", c.baseURL, collection)
}

func (c *Client) recordURL(id string) string {
	return c.recordsURL(c.collection) + "/" + url.PathEscape(id)
}

// do performs one JSON request/response round trip against the record store.
func (c *Client) do(ctx context.Context, op, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &StoreError{Op: op, Err: err, Details: "failed to encode request body"}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &StoreError{Op: op, Err: err, Details: "failed to build request"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &StoreError{Op: op, Err: ErrUnreachable, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &StoreError{Op: op, Err: ErrNotFound, Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StoreError{Op: op, Err: ErrRequestFailed, Status: resp.StatusCode, Details: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StoreError{Op: op, Err: ErrBadResponse, Details: err.Error()}
	}
	return nil
}
