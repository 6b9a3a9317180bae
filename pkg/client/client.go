// Package client is a Go client for the recipe catalog API. It mirrors the
// route layer's query-parameter contract and implements the browse-state
// plumbing a UI needs: debounced search, offset resets on filter changes,
// and non-overlapping load-more pagination.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkoss/recipebook/internal/model"
)

// DefaultPageSize matches the server's default limit.
const DefaultPageSize = 6

// DefaultDebounce is the quiet period applied to free-text search input.
const DefaultDebounce = 500 * time.Millisecond

// Query is one request's worth of catalog parameters. Exactly one of
// Search, Tags, or Sort applies per request, mirroring the server.
type Query struct {
	Search string
	Tags   []string
	Sort   string
	Limit  int
	Offset int
}

func (q Query) values() url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	switch {
	case q.Search != "":
		v.Set("search", q.Search)
	case len(q.Tags) > 0:
		v.Set("tags", strings.Join(q.Tags, ","))
	case q.Sort != "":
		v.Set("sort", q.Sort)
	}
	return v
}

// APIError is a non-2xx response from the catalog.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("recipe api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the recipe catalog over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches a page of recipes for the given query.
func (c *Client) List(ctx context.Context, q Query) ([]model.Recipe, error) {
	u := c.baseURL + "/api/recipes?" + q.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var recipes []model.Recipe
	if err := c.do(req, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get fetches a single recipe by id.
func (c *Client) Get(ctx context.Context, id int64) (model.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/recipes/%d", c.baseURL, id), nil)
	if err != nil {
		return model.Recipe{}, err
	}

	var recipe model.Recipe
	if err := c.do(req, &recipe); err != nil {
		return model.Recipe{}, err
	}
	return recipe, nil
}

// Create posts a new recipe and returns the server-assigned record.
func (c *Client) Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	body, err := json.Marshal(recipe)
	if err != nil {
		return model.Recipe{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/recipes", bytes.NewReader(body))
	if err != nil {
		return model.Recipe{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created model.Recipe
	if err := c.do(req, &created); err != nil {
		return model.Recipe{}, err
	}
	return created, nil
}

// Delete removes a recipe by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/recipes/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
