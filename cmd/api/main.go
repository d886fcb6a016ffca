package main

import (
	"context"
	"log"
	"log/slog"
	"marketdigest/internal/bootstrap"
	"marketdigest/internal/config"
	"marketdigest/internal/handler"
	"marketdigest/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	bootstrap.SetupLogger(cfg.Log)

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		log.Fatalf("error connecting to store: %v", err)
	}
	defer stores.Close()

	ledger, closeLedger, err := bootstrap.OpenRunLedger(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer closeLedger()

	priceHandler := handler.NewPriceHandler(stores.Prices)
	summaryHandler := handler.NewSummaryHandler(stores.Summaries)

	var runStore handler.RunStore
	if ledger != nil {
		runStore = ledger
	}
	runHandler := handler.NewRunHandler(runStore)

	r := gin.Default()
	r.Use(metrics.InstrumentGin())

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/prices/latest", priceHandler.GetLatestPrice)
	r.GET("/prices", priceHandler.GetPrices)
	r.GET("/summaries/latest", summaryHandler.GetLatestSummary)
	r.GET("/summaries", summaryHandler.GetSummaries)
	r.GET("/runs", runHandler.GetRuns)
	r.GET("/runs/:job", runHandler.GetJobRuns)
	r.GET("/health", handler.GetHealth(stores.Prices))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	err = r.Run(":" + cfg.APIPort)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
