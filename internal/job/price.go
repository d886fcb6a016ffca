package job

import (
	"context"
	"fmt"
	"marketdigest/internal/metrics"
	"marketdigest/internal/model"
	"time"

	"github.com/shopspring/decimal"
)

type PriceSource interface {
	SimplePrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error)
}

type PriceWriter interface {
	SavePrice(ctx context.Context, record *model.PriceRecord) error
}

// PriceCollector fetches one quote and appends it to the price table.
type PriceCollector struct {
	source   PriceSource
	store    PriceWriter
	asset    string
	currency string
	now      func() time.Time
}

func NewPriceCollector(source PriceSource, store PriceWriter, asset, currency string) *PriceCollector {
	if asset == "" {
		asset = "bitcoin"
	}
	if currency == "" {
		currency = "usd"
	}
	return &PriceCollector{
		source:   source,
		store:    store,
		asset:    asset,
		currency: currency,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (c *PriceCollector) Name() string { return "price" }

func (c *PriceCollector) Run(ctx context.Context) error {
	logger := loggerFrom(ctx)

	price, err := c.source.SimplePrice(ctx, c.asset, c.currency)
	if err != nil {
		return fmt.Errorf("price fetch: %w", err)
	}
	logger.Info("fetched price", "asset", c.asset, "currency", c.currency, "price", price.String())

	record := &model.PriceRecord{
		Price:      price,
		RecordedAt: c.now(),
	}
	if err := c.store.SavePrice(ctx, record); err != nil {
		return fmt.Errorf("price save: %w", err)
	}
	metrics.RecordWrite(tableLabel(c.store, priceTable))

	logger.Info("stored price record", "id", record.ID, "recorded_at", record.RecordedAt)
	return nil
}
