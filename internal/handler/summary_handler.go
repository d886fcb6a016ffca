package handler

import (
	"context"
	"log/slog"
	"marketdigest/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SummaryStore interface {
	GetLatestSummaries(ctx context.Context, limit int) ([]model.NewsSummary, error)
	GetLatestSummariesByCategory(ctx context.Context, category string, limit int) ([]model.NewsSummary, error)
}

type SummaryHandler struct {
	repository SummaryStore
}

func NewSummaryHandler(repository SummaryStore) *SummaryHandler {
	return &SummaryHandler{repository: repository}
}

func validCategory(category string) bool {
	return category == model.CategoryCrypto || category == model.CategoryMacro
}

func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	limit := getQueryLimit(c, 10, 100)
	category := c.Query("category")

	if category != "" && !validCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	var (
		summaries []model.NewsSummary
		err       error
	)
	if category == "" {
		summaries, err = h.repository.GetLatestSummaries(c.Request.Context(), limit)
	} else {
		summaries, err = h.repository.GetLatestSummariesByCategory(c.Request.Context(), category, limit)
	}
	if err != nil {
		slog.Error("error fetching summaries", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := SummariesResponse{
		Summaries: make([]SummaryResponse, 0, len(summaries)),
		Category:  category,
		Limit:     limit,
	}
	for _, s := range summaries {
		res.Summaries = append(res.Summaries, toSummaryResponse(s))
	}

	c.JSON(http.StatusOK, res)
}

// GetLatestSummary returns the newest summary of each category.
func (h *SummaryHandler) GetLatestSummary(c *gin.Context) {
	latest := make(map[string]SummaryResponse)
	for _, category := range []string{model.CategoryCrypto, model.CategoryMacro} {
		summaries, err := h.repository.GetLatestSummariesByCategory(c.Request.Context(), category, 1)
		if err != nil {
			slog.Error("error fetching latest summary", "category", category, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if len(summaries) > 0 {
			latest[category] = toSummaryResponse(summaries[0])
		}
	}

	if len(latest) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No summary available"})
		return
	}

	c.JSON(http.StatusOK, latest)
}
