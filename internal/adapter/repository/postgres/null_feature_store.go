package postgres

import (
	"context"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// NullFeatureStore discards writes. It backs runs that only export CSV.
type NullFeatureStore struct{}

// NewNullFeatureStore creates a new NullFeatureStore.
func NewNullFeatureStore() *NullFeatureStore {
	return &NullFeatureStore{}
}

func (s *NullFeatureStore) SaveRun(ctx context.Context, run *domain.AssemblyRun, rows []*domain.FeatureRow) error {
	return nil
}

func (s *NullFeatureStore) GetRow(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
	return nil, domain.ErrFeatureRowNotFound
}

func (s *NullFeatureStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.FeatureRow, error) {
	return nil, nil
}

func (s *NullFeatureStore) GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error) {
	return nil, domain.ErrRunNotFound
}

func (s *NullFeatureStore) LatestRun(ctx context.Context) (*domain.AssemblyRun, error) {
	return nil, domain.ErrRunNotFound
}
