package handler

import (
	"context"
	"log/slog"
	"marketdigest/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PriceStore interface {
	GetLatestPrices(ctx context.Context, limit int) ([]model.PriceRecord, error)
}

type PriceHandler struct {
	repository PriceStore
}

func NewPriceHandler(repository PriceStore) *PriceHandler {
	return &PriceHandler{repository: repository}
}

func (h *PriceHandler) GetPrices(c *gin.Context) {
	limit := getQueryLimit(c, 10, 100)

	prices, err := h.repository.GetLatestPrices(c.Request.Context(), limit)
	if err != nil {
		slog.Error("error fetching prices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := PricesResponse{
		Prices: make([]PriceResponse, 0, len(prices)),
		Limit:  limit,
	}
	for _, p := range prices {
		res.Prices = append(res.Prices, toPriceResponse(p))
	}

	c.JSON(http.StatusOK, res)
}

func (h *PriceHandler) GetLatestPrice(c *gin.Context) {
	prices, err := h.repository.GetLatestPrices(c.Request.Context(), 1)
	if err != nil {
		slog.Error("error fetching latest price", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if len(prices) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No price available"})
		return
	}

	c.JSON(http.StatusOK, toPriceResponse(prices[0]))
}
