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

	searcher, err := bootstrap.NewSearcher(cfg)
	if err != nil {
		log.Fatalf("error creating news client: %v", err)
	}

	generator, closeGenerator, err := bootstrap.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating model client: %v", err)
	}
	defer closeGenerator()

	collector := job.NewNewsCollector(searcher, generator, stores.Summaries, cfg.News.ResultCount)
	slog.Info("collecting news", "source", searcher.Name(), "model", generator.Name())

	var recorder job.RunRecorder
	if ledger != nil {
		recorder = ledger
	}
	if err := bootstrap.RunJob(ctx, cfg, collector, recorder, "newscollector"); err != nil {
		slog.Info("news collector finished with failed categories")
	}
}
