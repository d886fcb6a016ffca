package news

import (
	"context"
	"encoding/json"
	"fmt"
)

// Query describes one category search.
type Query struct {
	Category string
	Text     string
	Count    int
	Language string
}

// Searcher returns raw result objects for a query. The shape of each result
// is provider specific and is handed to the summarizer untouched.
type Searcher interface {
	Search(ctx context.Context, query Query) ([]json.RawMessage, error)
	Name() string
}

// StatusError is returned when a news API answers with a non-2xx status.
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d: %s", e.Source, e.StatusCode, e.Body)
}
