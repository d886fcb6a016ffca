package main

import (
	"context"
	"log"
	"log/slog"
	"marketdigest/internal/bootstrap"
	"marketdigest/internal/config"
	"marketdigest/internal/job"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
)

// The scheduler runs all three jobs in one long-lived process. Each job is
// wrapped so a slow run is skipped rather than overlapped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	bootstrap.SetupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	var recorder job.RunRecorder
	if ledger != nil {
		recorder = ledger
	}

	source, err := bootstrap.NewPriceSource(cfg)
	if err != nil {
		log.Fatalf("error creating price client: %v", err)
	}
	searcher, err := bootstrap.NewSearcher(cfg)
	if err != nil {
		log.Fatalf("error creating news client: %v", err)
	}
	generator, closeGenerator, err := bootstrap.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating model client: %v", err)
	}
	defer closeGenerator()
	sender, err := bootstrap.NewSender(cfg)
	if err != nil {
		log.Fatalf("error creating mail client: %v", err)
	}
	from, to, err := bootstrap.MailAddresses(cfg)
	if err != nil {
		log.Fatalf("error reading mail addresses: %v", err)
	}

	schedule := []struct {
		spec string
		job  job.Job
	}{
		{cfg.Schedule.Price, job.NewPriceCollector(source, stores.Prices, cfg.Price.Asset, cfg.Price.Currency)},
		{cfg.Schedule.News, job.NewNewsCollector(searcher, generator, stores.Summaries, cfg.News.ResultCount)},
		{cfg.Schedule.Digest, job.NewDigestMailer(stores.Prices, stores.Summaries, generator, sender, from, to)},
	}

	c := cron.New()
	for _, s := range schedule {
		j := s.job
		wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
			if err := bootstrap.RunJob(ctx, cfg, j, recorder, "scheduler"); err != nil {
				slog.Info("scheduled run failed, waiting for next tick", "job", j.Name())
			}
		}))
		if _, err := c.AddJob(s.spec, wrapped); err != nil {
			log.Fatalf("invalid schedule %q for %s: %v", s.spec, j.Name(), err)
		}
		slog.Info("job scheduled", "job", j.Name(), "spec", s.spec)
	}

	c.Start()
	<-ctx.Done()

	slog.Info("shutting down, waiting for running jobs")
	<-c.Stop().Done()
}
