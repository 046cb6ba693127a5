package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
)

// AssemblyUseCase loads the event store, assembles feature rows and
// publishes them to the feature store and cache.
type AssemblyUseCase struct {
	source    EventSource
	assembler *feature.Assembler
	store     FeatureStore
	cache     FeatureCache
	retrier   Retrier
	idGen     IDGenerator
	observer  Observer
	logger    zerolog.Logger
	cacheTTL  time.Duration
}

// NewAssemblyUseCase creates a new AssemblyUseCase.
func NewAssemblyUseCase(
	source EventSource,
	assembler *feature.Assembler,
	store FeatureStore,
	cache FeatureCache,
	retrier Retrier,
	idGen IDGenerator,
	observer Observer,
	logger zerolog.Logger,
) *AssemblyUseCase {
	return &AssemblyUseCase{
		source:    source,
		assembler: assembler,
		store:     store,
		cache:     cache,
		retrier:   retrier,
		idGen:     idGen,
		observer:  observer,
		logger:    logger,
		cacheTTL:  DefaultFeatureCacheTTL,
	}
}

// SetCacheTTL overrides DefaultFeatureCacheTTL.
func (uc *AssemblyUseCase) SetCacheTTL(ttl time.Duration) {
	uc.cacheTTL = ttl
}

// AssemblyOutput carries everything produced by one run.
type AssemblyOutput struct {
	Run      *domain.AssemblyRun
	Dataset  *domain.Dataset
	Snapshot *feature.Snapshot
	Result   *feature.Result
}

// Run executes one assembly pass. Schema violations never fail the run; they
// are excluded and reported in the output.
func (uc *AssemblyUseCase) Run(ctx context.Context) (*AssemblyOutput, error) {
	started := time.Now().UTC()

	ds, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events from %s: %w", uc.source.Name(), err)
	}

	snap := feature.NewSnapshot(ds)
	res, err := uc.assembler.Assemble(ctx, snap)
	if err != nil {
		return nil, err
	}

	run := &domain.AssemblyRun{
		ID:                 uc.idGen.Generate(),
		Fingerprint:        res.Fingerprint,
		Source:             uc.source.Name(),
		StartedAt:          started,
		RowsEmitted:        len(res.Rows),
		SkippedNoAnchor:    res.Skipped[feature.SkipMissingAnchor],
		SkippedUnlabeled:   res.Skipped[feature.SkipUnlabeled],
		FlaggedRows:        res.FlaggedRows(),
		ViolationCount:     res.Violations.Total(),
		LabeledLoanCount:   res.LabeledLoans,
		DefaultedLoanCount: res.DefaultedRows(),
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	run.FinishedAt = time.Now().UTC()
	if err := uc.retrier.Retry(persistCtx, func() error {
		return uc.store.SaveRun(persistCtx, run, res.Rows)
	}); err != nil {
		return nil, fmt.Errorf("persist run %s: %w", run.ID, err)
	}

	if err := uc.cache.Put(ctx, run.Fingerprint, res.Rows, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to cache feature rows")
	}

	summary := res.Violations.Summary()
	uc.observer.RunCompleted(run, summary, run.FinishedAt.Sub(started))

	for _, v := range summary {
		uc.logger.Warn().
			Str("entity", string(v.Entity)).
			Str("kind", v.Kind).
			Int("count", v.Count).
			Msg("records excluded")
	}

	uc.logger.Info().
		Str("run_id", run.ID).
		Str("fingerprint", run.Fingerprint).
		Str("source", run.Source).
		Int("rows", run.RowsEmitted).
		Int("skipped_missing_anchor", run.SkippedNoAnchor).
		Int("skipped_unlabeled", run.SkippedUnlabeled).
		Int("violations", run.ViolationCount).
		Dur("duration", run.FinishedAt.Sub(started)).
		Msg("feature assembly completed")

	return &AssemblyOutput{Run: run, Dataset: ds, Snapshot: snap, Result: res}, nil
}
