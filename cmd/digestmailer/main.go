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

	from, to, err := bootstrap.MailAddresses(cfg)
	if err != nil {
		log.Fatalf("error reading mail addresses: %v", err)
	}

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

	generator, closeGenerator, err := bootstrap.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating model client: %v", err)
	}
	defer closeGenerator()

	sender, err := bootstrap.NewSender(cfg)
	if err != nil {
		log.Fatalf("error creating mail client: %v", err)
	}

	mailer := job.NewDigestMailer(stores.Prices, stores.Summaries, generator, sender, from, to)

	var recorder job.RunRecorder
	if ledger != nil {
		recorder = ledger
	}
	if err := bootstrap.RunJob(ctx, cfg, mailer, recorder, "digestmailer"); err != nil {
		slog.Info("digest not sent")
	}
}
