package main

import (
	"log"
	"log/slog"
	"marketdigest/db"
	"marketdigest/internal/bootstrap"
	"marketdigest/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	bootstrap.SetupLogger(cfg.Log)

	if cfg.Store.Backend != config.BackendPostgres {
		slog.Info("migrations only apply to the postgres backend, nothing to do", "backend", cfg.Store.Backend)
		return
	}

	applied, err := db.Migrate(cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatalf("error applying migrations: %v", err)
	}

	if !applied {
		slog.Info("schema already up to date")
		return
	}
	slog.Info("migrations applied")
}
