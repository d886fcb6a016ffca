package handler

import (
	"context"
	"log/slog"
	"marketdigest/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RunStore interface {
	GetLastRuns(ctx context.Context) ([]model.JobRun, error)
	GetRuns(ctx context.Context, job string, limit int) ([]model.JobRun, error)
}

// RunHandler serves the run ledger. A nil store means the ledger is not
// configured and every route answers 503.
type RunHandler struct {
	repository RunStore
}

func NewRunHandler(repository RunStore) *RunHandler {
	return &RunHandler{repository: repository}
}

func (h *RunHandler) GetRuns(c *gin.Context) {
	if h.repository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run ledger not configured"})
		return
	}

	runs, err := h.repository.GetLastRuns(c.Request.Context())
	if err != nil {
		slog.Error("error fetching runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger error"})
		return
	}

	res := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		res = append(res, toRunResponse(r))
	}
	c.JSON(http.StatusOK, res)
}

func (h *RunHandler) GetJobRuns(c *gin.Context) {
	if h.repository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run ledger not configured"})
		return
	}

	job := c.Param("job")
	limit := getQueryLimit(c, 10, 50)

	runs, err := h.repository.GetRuns(c.Request.Context(), job, limit)
	if err != nil {
		slog.Error("error fetching job runs", "job", job, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger error"})
		return
	}

	if len(runs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No runs recorded"})
		return
	}

	res := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		res = append(res, toRunResponse(r))
	}
	c.JSON(http.StatusOK, res)
}
