package handler

import (
	"context"
	"encoding/json"
	"errors"
	"marketdigest/internal/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeSummaryStore struct {
	summaries  []model.NewsSummary
	err        error
	categories []string
}

func (f *fakeSummaryStore) GetLatestSummaries(_ context.Context, limit int) ([]model.NewsSummary, error) {
	if len(f.summaries) > limit {
		return f.summaries[:limit], f.err
	}
	return f.summaries, f.err
}

func (f *fakeSummaryStore) GetLatestSummariesByCategory(_ context.Context, category string, limit int) ([]model.NewsSummary, error) {
	f.categories = append(f.categories, category)
	var out []model.NewsSummary
	for _, s := range f.summaries {
		if s.Category == category && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, f.err
}

func newTestSummaryRouter(store SummaryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSummaryHandler(store)
	r.GET("/summaries", h.GetSummaries)
	r.GET("/summaries/latest", h.GetLatestSummary)
	return r
}

func TestGetSummaries_DBError(t *testing.T) {
	store := &fakeSummaryStore{err: errors.New("DB down")}

	r := newTestSummaryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetSummaries_Empty(t *testing.T) {
	r := newTestSummaryRouter(&fakeSummaryStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SummariesResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 0, len(res.Summaries))
	assert.Equal(t, 10, res.Limit)
}

func TestGetSummaries_ByCategory(t *testing.T) {
	now := time.Now()
	store := &fakeSummaryStore{
		summaries: []model.NewsSummary{
			{ID: 4, Category: model.CategoryMacro, SummaryText: "Rates unchanged", RecordedAt: now},
			{ID: 3, Category: model.CategoryCrypto, SummaryText: "ETF inflows", RecordedAt: now},
		},
	}

	r := newTestSummaryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries?category=crypto&limit=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SummariesResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 1, len(res.Summaries))
	assert.Equal(t, int64(3), res.Summaries[0].ID)
	assert.Equal(t, "crypto", res.Category)
	assert.Equal(t, 5, res.Limit)
}

func TestGetSummaries_UnknownCategory(t *testing.T) {
	r := newTestSummaryRouter(&fakeSummaryStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries?category=sports", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestSummary_PerCategory(t *testing.T) {
	now := time.Now()
	store := &fakeSummaryStore{
		summaries: []model.NewsSummary{
			{ID: 6, Category: model.CategoryCrypto, SummaryText: "newest crypto", RecordedAt: now},
			{ID: 5, Category: model.CategoryMacro, SummaryText: "newest macro", RecordedAt: now},
			{ID: 4, Category: model.CategoryCrypto, SummaryText: "older crypto", RecordedAt: now.Add(-time.Hour)},
		},
	}

	r := newTestSummaryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]SummaryResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "newest crypto", res["crypto"].SummaryText)
	assert.Equal(t, "newest macro", res["macro"].SummaryText)
}

func TestGetLatestSummary_NotFound(t *testing.T) {
	r := newTestSummaryRouter(&fakeSummaryStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/summaries/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
