package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/feature"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

// QualityUseCase runs the data-quality suite against the event store.
type QualityUseCase struct {
	source    EventSource
	assembler *feature.Assembler
	runner    *quality.Runner
	observer  Observer
	logger    zerolog.Logger
}

// NewQualityUseCase creates a new QualityUseCase.
func NewQualityUseCase(
	source EventSource,
	assembler *feature.Assembler,
	runner *quality.Runner,
	observer Observer,
	logger zerolog.Logger,
) *QualityUseCase {
	return &QualityUseCase{
		source:    source,
		assembler: assembler,
		runner:    runner,
		observer:  observer,
		logger:    logger,
	}
}

// Run loads the source, assembles features without persisting them and
// evaluates every check.
func (uc *QualityUseCase) Run(ctx context.Context) (*quality.Report, error) {
	ds, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events from %s: %w", uc.source.Name(), err)
	}

	snap := feature.NewSnapshot(ds)
	res, err := uc.assembler.Assemble(ctx, snap)
	if err != nil {
		return nil, err
	}

	return uc.Evaluate(&AssemblyOutput{Dataset: ds, Snapshot: snap, Result: res}), nil
}

// Evaluate checks the output of an assembly run that already happened.
func (uc *QualityUseCase) Evaluate(out *AssemblyOutput) *quality.Report {
	report := uc.runner.Run(quality.Input{
		Dataset:  out.Dataset,
		Snapshot: out.Snapshot,
		Result:   out.Result,
	})

	for _, c := range report.Categories {
		for _, ch := range c.Checks {
			uc.observer.QualityChecked(c.Name, string(ch.Status))
		}
		if c.Status != quality.StatusPass {
			uc.logger.Warn().
				Str("category", c.Name).
				Int("failed", c.Failed).
				Int("warned", c.Warned).
				Msg("data quality category not passing")
		}
	}

	uc.logger.Info().
		Str("status", string(report.OverallStatus)).
		Int("failed_checks", report.TotalFailedChecks).
		Int("warnings", report.TotalWarnings).
		Msg("data quality suite completed")

	return report
}
