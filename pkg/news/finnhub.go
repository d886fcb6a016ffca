package news

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

// Search ignores the free-text query; Finnhub market news is selected by
// category only.
func (c *FinnHubClient) Search(ctx context.Context, query Query) ([]json.RawMessage, error) {
	res, _, err := c.client.MarketNews(ctx).Category(finnhubCategory(query.Category)).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	results := make([]json.RawMessage, 0, len(res))
	for _, news := range res {
		if query.Count > 0 && len(results) >= query.Count {
			break
		}

		item := finnhubItem{}
		if news.Headline != nil {
			item.Title = *news.Headline
		}
		if news.Summary != nil {
			item.Description = *news.Summary
		}
		if news.Url != nil {
			item.URL = *news.Url
		}
		if news.Source != nil {
			item.Source = *news.Source
		}
		if news.Datetime != nil {
			item.PublishedAt = time.Unix(*news.Datetime, 0).UTC().Format(time.RFC3339)
		}

		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("finnhub encode: %w", err)
		}
		results = append(results, raw)
	}

	return results, nil
}

func finnhubCategory(category string) string {
	if category == "crypto" {
		return "crypto"
	}
	return "general"
}

type finnhubItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
}
