// Package supabase is a small PostgREST client for Supabase projects.
// It covers the query surface the jobs need: select with filters, ordering
// and limits, and inserts.
package supabase

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client performs Supabase REST calls against one project.
type Client struct {
	prefix     string
	apiKey     string
	httpClient *http.Client
	headers    http.Header
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Supabase client for projectURL, e.g. https://xyz.supabase.co.
func New(projectURL, apiKey string, opts ...Option) (*Client, error) {
	if projectURL == "" {
		return nil, errors.New("project URL is required")
	}
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if _, err := url.Parse(projectURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	c := &Client{
		prefix:     strings.TrimRight(projectURL, "/") + "/rest/v1",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers: http.Header{
			"Accept":       []string{"application/json"},
			"Content-Type": []string{"application/json"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

func (c *Client) newRequest(req *http.Request) {
	for k, values := range c.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// APIError is a PostgREST error response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("supabase: status %d", e.StatusCode)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}
