package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// FeatureUseCase serves assembled feature rows.
type FeatureUseCase struct {
	store    FeatureStore
	cache    FeatureCache
	observer Observer
	logger   zerolog.Logger
}

// NewFeatureUseCase creates a new FeatureUseCase.
func NewFeatureUseCase(store FeatureStore, cache FeatureCache, observer Observer, logger zerolog.Logger) *FeatureUseCase {
	return &FeatureUseCase{
		store:    store,
		cache:    cache,
		observer: observer,
		logger:   logger,
	}
}

// GetByLoan returns the row for loanID, preferring the cache of the latest run.
func (uc *FeatureUseCase) GetByLoan(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
	if err := domain.ValidateID(loanID); err != nil {
		return nil, err
	}

	if row := uc.cached(ctx, loanID); row != nil {
		uc.observer.CacheLookup(true)
		return row, nil
	}
	uc.observer.CacheLookup(false)

	return uc.store.GetRow(ctx, loanID)
}

// cached returns nil on a miss or cache failure; the store is authoritative.
func (uc *FeatureUseCase) cached(ctx context.Context, loanID string) *domain.FeatureRow {
	fingerprint, err := uc.cache.CurrentFingerprint(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("feature cache unavailable")
		return nil
	}
	if fingerprint == "" {
		return nil
	}

	row, err := uc.cache.Get(ctx, fingerprint, loanID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("loan_id", loanID).Msg("feature cache read failed")
		return nil
	}
	return row
}

// ListByUserInput contains input for listing a user's rows.
type ListByUserInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListByUser returns a page of the user's rows ordered by anchor.
func (uc *FeatureUseCase) ListByUser(ctx context.Context, input ListByUserInput) ([]*domain.FeatureRow, error) {
	if err := domain.ValidateID(input.UserID); err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.store.ListByUser(ctx, input.UserID, limit, offset)
}

// GetRun returns a run summary by id.
func (uc *FeatureUseCase) GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.store.GetRun(ctx, id)
}

// LatestRun returns the most recent run summary.
func (uc *FeatureUseCase) LatestRun(ctx context.Context) (*domain.AssemblyRun, error) {
	return uc.store.LatestRun(ctx)
}
