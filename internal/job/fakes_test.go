package job

import (
	"context"
	"encoding/json"
	"marketdigest/internal/model"
	"marketdigest/pkg/news"
)

type fakePriceStore struct {
	saved   []model.PriceRecord
	latest  []model.PriceRecord
	saveErr error
	readErr error
	limit   int
}

func (f *fakePriceStore) SavePrice(_ context.Context, record *model.PriceRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	record.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *record)
	return nil
}

func (f *fakePriceStore) GetLatestPrices(_ context.Context, limit int) ([]model.PriceRecord, error) {
	f.limit = limit
	return f.latest, f.readErr
}

type fakeSummaryStore struct {
	saved   []model.NewsSummary
	latest  []model.NewsSummary
	readErr error
	limit   int
}

func (f *fakeSummaryStore) SaveSummary(_ context.Context, summary *model.NewsSummary) error {
	summary.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *summary)
	return nil
}

func (f *fakeSummaryStore) GetLatestSummaries(_ context.Context, limit int) ([]model.NewsSummary, error) {
	f.limit = limit
	return f.latest, f.readErr
}

type searchResult struct {
	items []json.RawMessage
	err   error
}

type fakeSearcher struct {
	results map[string]searchResult
	queries []news.Query
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, q news.Query) ([]json.RawMessage, error) {
	f.queries = append(f.queries, q)
	r := f.results[q.Category]
	return r.items, r.err
}

type fakeRecorder struct {
	runs []model.JobRun
}

func (f *fakeRecorder) RecordRun(_ context.Context, run model.JobRun) error {
	f.runs = append(f.runs, run)
	return nil
}
