package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds one PostgREST request. Filters follow the PostgREST
// operator syntax, e.g. ?category=eq.crypto&order=recorded_at.desc&limit=2.
type Query struct {
	client *Client
	table  string
	params url.Values
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Order appends an ordering term; calls accumulate in priority order.
func (q *Query) Order(column string, desc bool) *Query {
	term := column + ".asc"
	if desc {
		term = column + ".desc"
	}
	if existing := q.params.Get("order"); existing != "" {
		term = existing + "," + term
	}
	q.params.Set("order", term)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Execute runs the select and decodes the JSON array into dst.
func (q *Query) Execute(ctx context.Context, dst any) error {
	endpoint := q.endpoint()
	if len(q.params) > 0 {
		endpoint += "?" + q.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	return q.do(req, dst)
}

// Insert posts row (a struct or a slice of structs) and decodes the
// inserted representation into dst when dst is not nil.
func (q *Query) Insert(ctx context.Context, row any, dst any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("supabase encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	if dst != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}
	return q.do(req, dst)
}

func (q *Query) endpoint() string {
	return q.client.prefix + "/" + url.PathEscape(q.table)
}

func (q *Query) do(req *http.Request, dst any) error {
	q.client.newRequest(req)

	resp, err := q.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase %s %s: %w", req.Method, q.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if dst == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("supabase decode %s: %w", q.table, err)
	}
	return nil
}
