package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inspirehome-sync/internal/config"
	"inspirehome-sync/internal/delta"
	"inspirehome-sync/internal/domain"
	"inspirehome-sync/internal/feed"
	"inspirehome-sync/internal/state"
	"inspirehome-sync/internal/transform"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyBatch fires when every feed record failed validation. Writing
	// an empty catalog would wipe the live site, so the run aborts instead.
	ErrEmptyBatch = errors.New("no valid products after transformation")
)

// Result summarizes a completed run.
type Result struct {
	RunID        string
	ProductCount int
	Skipped      int
	Delta        delta.Delta
	Wrote        bool
}

// Orchestrator sequences the sync stages: load config and previous state,
// fetch, parse, transform, delta, persist. Every stage is a hard gate; any
// failure aborts the run with nothing written.
type Orchestrator struct {
	cfg     *config.Config
	logger  *zap.Logger
	fetcher feed.Fetcher
	store   *state.Store
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger, fetcher feed.Fetcher, store *state.Store) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher,
		store:   store,
	}
}

// Run executes one full sync. It returns a Result on either terminal
// success state (writes performed, or steady-state no-op) and an error for
// every fatal condition. Nothing is retried; the scheduler owns retries.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	log := o.logger.With(zap.String("run_id", runID))

	if err := o.store.Lock(); err != nil {
		return nil, err
	}
	defer o.store.Unlock()

	log.Info("Loading configuration")
	markup, err := transform.LoadMarkupConfig(o.cfg.Paths.Markup)
	if err != nil {
		return nil, err
	}
	catmap, err := transform.LoadCategoryMap(o.cfg.Paths.CategoryMap)
	if err != nil {
		return nil, err
	}
	previous, err := o.store.LoadState()
	if err != nil {
		return nil, err
	}

	log.Info("Fetching vendor feed")
	raw, err := o.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Feed downloaded", zap.Float64("size_mb", float64(len(raw))/1024/1024))

	records, err := feed.Parse(raw)
	if err != nil {
		return nil, err
	}
	log.Info("Feed parsed", zap.Int("records", len(records)))

	products, skipped := transform.New(markup, catmap).TransformAll(records)
	log.Info("Records transformed",
		zap.Int("products", len(products)),
		zap.Int("skipped", skipped),
	)

	if len(products) == 0 {
		return nil, ErrEmptyBatch
	}

	d, hashes := delta.Compute(products, previous.ProductHash)
	result := &Result{
		RunID:        runID,
		ProductCount: len(products),
		Skipped:      skipped,
		Delta:        d,
	}

	if !d.HasChanges() {
		log.Info("No changes detected, skipping writes", zap.Int("unchanged", d.Unchanged))
		return result, nil
	}

	log.Info("Delta computed",
		zap.Int("new", len(d.New)),
		zap.Int("removed", len(d.Removed)),
		zap.Int("changed", len(d.Changed)),
		zap.Int("unchanged", d.Unchanged),
	)

	now := time.Now().UTC()
	newState := domain.SyncState{
		LastSync:     &now,
		ProductCount: len(products),
		ProductHash:  hashes,
		Delta:        summarize(d, domain.MaxSampledIDs),
	}
	entry := domain.HistoryEntry{
		Timestamp:    now,
		RunID:        runID,
		ProductCount: len(products),
		Delta:        summarize(d, domain.MaxHistorySampledIDs),
	}

	if err := o.store.Persist(products, newState, entry); err != nil {
		return nil, fmt.Errorf("failed to persist sync results: %w", err)
	}

	result.Wrote = true
	log.Info("Sync complete", zap.Int("products", len(products)))
	return result, nil
}

func summarize(d delta.Delta, sampleCap int) domain.DeltaSummary {
	return domain.DeltaSummary{
		New:        len(d.New),
		Removed:    len(d.Removed),
		Changed:    len(d.Changed),
		Unchanged:  d.Unchanged,
		NewIDs:     domain.SampleIDs(d.New, sampleCap),
		RemovedIDs: domain.SampleIDs(d.Removed, sampleCap),
		ChangedIDs: domain.SampleIDs(d.Changed, sampleCap),
	}
}
