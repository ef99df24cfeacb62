// Package client is a typed HTTP client for the SMS API. Every call takes a
// context so callers can cancel in-flight requests, and list fetches pass
// through a per-resource sequence guard that drops responses arriving after
// a newer fetch has already landed.
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
	"sync"
	"time"

	"github.com/Ortiz25/sms-api/internal/models"
)

// APIError is the failure surface of every client call. It carries the
// server's envelope code and message when one was decoded, or the transport
// error text otherwise.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// envelope mirrors the server's response contract. Success is the only
// authoritative signal; status codes are treated as advisory.
type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Message    string             `json:"message"`
	Code       string             `json:"code"`
}

// ListOptions narrows and pages a list fetch.
type ListOptions struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return q
}

// Page pairs decoded rows with the server's pagination metadata.
type Page[T any] struct {
	Rows       []T
	Pagination *models.Pagination
}

// Client talks to one SMS API deployment.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string

	guard *sequenceGuard
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the given base URL, which should include the API
// prefix (for example http://localhost:8080/api/v1).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		guard:   newSequenceGuard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode == http.StatusNoContent {
		return &envelope{Success: true}, nil
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: res.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return nil, &APIError{Status: res.StatusCode, Code: env.Code, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &APIError{Status: res.StatusCode, Message: fmt.Sprintf("decode payload: %v", err)}
		}
	}
	return &env, nil
}

// list runs a guarded list fetch. The guard ticket is taken before the
// request goes out; if a later fetch for the same resource commits first,
// this response is dropped with ErrStaleResponse.
func list[T any](ctx context.Context, c *Client, resource, path string, opts ListOptions) (*Page[T], error) {
	ticket := c.guard.begin(resource)

	var rows []T
	env, err := c.do(ctx, http.MethodGet, path, opts.query(), nil, &rows)
	if err != nil {
		return nil, err
	}
	if !c.guard.commit(resource, ticket) {
		return nil, ErrStaleResponse
	}
	return &Page[T]{Rows: rows, Pagination: env.Pagination}, nil
}
