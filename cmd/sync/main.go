package main

import (
	"context"
	"fmt"

	"inspirehome-sync/internal/config"
	"inspirehome-sync/internal/feed"
	"inspirehome-sync/internal/logger"
	"inspirehome-sync/internal/pipeline"
	"inspirehome-sync/internal/state"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The sync binary is a single-shot batch job: exit 0 on success (with or
// without writes), exit 1 on any fatal condition. Scheduling, retries, and
// non-overlapping invocation are the caller's responsibility.
func main() {
	// Optional .env for local runs; CI injects real env vars
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting catalog sync",
		zap.String("env", cfg.Server.Env),
		zap.String("catalog", cfg.Paths.Catalog),
	)

	fetcher := feed.NewHTTPFetcher(cfg.Feed.URL, cfg.Feed.Timeout)
	store := state.NewStore(cfg.Paths.Catalog, cfg.Paths.State, cfg.Paths.History)
	orchestrator := pipeline.NewOrchestrator(cfg, log, fetcher, store)

	result, err := orchestrator.Run(context.Background())
	if err != nil {
		log.Fatal("Sync failed", zap.Error(err))
	}

	if !result.Wrote {
		log.Info("Steady state, nothing written",
			zap.String("run_id", result.RunID),
			zap.Int("unchanged", result.Delta.Unchanged),
		)
		return
	}

	log.Info("Catalog updated",
		zap.String("run_id", result.RunID),
		zap.Int("products", result.ProductCount),
		zap.Int("skipped_records", result.Skipped),
		zap.Int("new", len(result.Delta.New)),
		zap.Int("removed", len(result.Delta.Removed)),
		zap.Int("changed", len(result.Delta.Changed)),
		zap.Int("unchanged", result.Delta.Unchanged),
	)
}
