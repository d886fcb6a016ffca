package coingecko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var (
	ErrPriceNotFound     = errors.New("price not found in response")
	ErrMalformedResponse = errors.New("malformed price response")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coingecko: unexpected status code %d: %s", e.StatusCode, e.Body)
}

// SimplePrice returns the current price of assetID quoted in currency,
// e.g. SimplePrice(ctx, "bitcoin", "usd").
func (c *Client) SimplePrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("ids", assetID)
	query.Set("vs_currencies", currency)

	endpoint := fmt.Sprintf("%s/api/v3/simple/price?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decimal.Zero, &StatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return parsePrice(body, assetID, currency)
}

func parsePrice(body []byte, assetID, currency string) (decimal.Decimal, error) {
	if !gjson.ValidBytes(body) {
		return decimal.Zero, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	path := gjson.Escape(assetID) + "." + gjson.Escape(currency)
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return decimal.Zero, fmt.Errorf("key lookup failed for %q: %w", path, ErrPriceNotFound)
	}
	if result.Type != gjson.Number {
		return decimal.Zero, fmt.Errorf("%w: %q is %s, not a number", ErrMalformedResponse, path, result.Type)
	}

	price, err := decimal.NewFromString(result.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return price, nil
}
