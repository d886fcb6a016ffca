package main

import (
	"context"
	"log"
	"log/slog"
	"marketdigest/internal/bootstrap"
	"marketdigest/internal/config"
	"marketdigest/internal/job"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	bootstrap.SetupLogger(cfg.Log)

	ctx := context.Background()

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		log.Fatalf("error connecting to store: %v", err)
	}
	defer stores.Close()

	ledger, closeLedger, err := bootstrap.OpenRunLedger(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer closeLedger()

	source, err := bootstrap.NewPriceSource(cfg)
	if err != nil {
		log.Fatalf("error creating price client: %v", err)
	}

	collector := job.NewPriceCollector(source, stores.Prices, cfg.Price.Asset, cfg.Price.Currency)

	var recorder job.RunRecorder
	if ledger != nil {
		recorder = ledger
	}
	if err := bootstrap.RunJob(ctx, cfg, collector, recorder, "pricecollector"); err != nil {
		slog.Info("price collector finished without a record")
	}
}
