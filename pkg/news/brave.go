package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const braveNewsURL = "https://api.search.brave.com/res/v1/news/search"

type BraveClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewBraveClient creates a Brave news search client. Requests are paced to
// one per second, the free plan limit.
func NewBraveClient(apiKey string, timeout time.Duration) *BraveClient {
	return &BraveClient{
		apiKey:     apiKey,
		baseURL:    braveNewsURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *BraveClient) Name() string {
	return "Brave"
}

func (c *BraveClient) Search(ctx context.Context, query Query) ([]json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("brave rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("count", strconv.Itoa(query.Count))
	params.Set("search_lang", query.Language)
	params.Set("text_decorations", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Source: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var raw braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("brave decode: %w", err)
	}

	return raw.Results, nil
}

type braveResponse struct {
	Results []json.RawMessage `json:"results"`
}
