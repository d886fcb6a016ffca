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
)

const alphaVantageURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    alphaVantageURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Search(ctx context.Context, query Query) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("topics", alphaVantageTopics(query.Category))
	params.Set("sort", "LATEST")
	params.Set("limit", strconv.Itoa(query.Count))
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Source: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// Quota errors come back as 200 with an explanatory field instead of a feed.
	if raw.Feed == nil && (raw.Information != "" || raw.Note != "") {
		return nil, fmt.Errorf("alphavantage: %s%s", raw.Information, raw.Note)
	}

	items := raw.Feed
	if query.Count > 0 && len(items) > query.Count {
		items = items[:query.Count]
	}
	return items, nil
}

func alphaVantageTopics(category string) string {
	if category == "crypto" {
		return "blockchain"
	}
	return "economy_macro,economy_monetary,financial_markets"
}

type avResponse struct {
	Feed        []json.RawMessage `json:"feed"`
	Information string            `json:"Information"`
	Note        string            `json:"Note"`
}
