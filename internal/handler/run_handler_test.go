package handler

import (
	"context"
	"encoding/json"
	"marketdigest/internal/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeRunStore struct {
	runs []model.JobRun
}

func (f *fakeRunStore) GetLastRuns(context.Context) ([]model.JobRun, error) {
	return f.runs, nil
}

func (f *fakeRunStore) GetRuns(_ context.Context, job string, limit int) ([]model.JobRun, error) {
	var out []model.JobRun
	for _, r := range f.runs {
		if r.Job == job && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestRunRouter(h *RunHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/runs", h.GetRuns)
	r.GET("/runs/:job", h.GetJobRuns)
	return r
}

func TestGetRuns_NotConfigured(t *testing.T) {
	r := newTestRunRouter(NewRunHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/runs", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetJobRuns(t *testing.T) {
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeRunStore{runs: []model.JobRun{
		{Job: "digest", RunID: "a", Status: model.RunStatusFailed, Error: "empty digest subject or body", StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)},
		{Job: "price", RunID: "b", Status: model.RunStatusSuccess, StartedAt: start, FinishedAt: start},
	}}
	r := newTestRunRouter(NewRunHandler(store))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/runs/digest", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var res []RunResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 1, len(res))
	assert.Equal(t, "failed", res[0].Status)
	assert.Equal(t, 1500.0, res[0].DurationMS)
}

func TestGetJobRuns_Unknown(t *testing.T) {
	r := newTestRunRouter(NewRunHandler(&fakeRunStore{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/runs/news", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
