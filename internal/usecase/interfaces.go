package usecase

import (
	"context"
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// EventSource loads the raw event store.
type EventSource interface {
	Name() string
	Load(ctx context.Context) (*domain.Dataset, error)
}

// FeatureStore persists assembled feature rows and run summaries.
type FeatureStore interface {
	SaveRun(ctx context.Context, run *domain.AssemblyRun, rows []*domain.FeatureRow) error
	GetRow(ctx context.Context, loanID string) (*domain.FeatureRow, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.FeatureRow, error)
	GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error)
	LatestRun(ctx context.Context) (*domain.AssemblyRun, error)
}

// FeatureCache caches feature rows by snapshot fingerprint.
type FeatureCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, fingerprint, loanID string) (*domain.FeatureRow, error)
	Put(ctx context.Context, fingerprint string, rows []*domain.FeatureRow, ttl time.Duration) error
	// CurrentFingerprint returns the fingerprint of the last cached run, or "".
	CurrentFingerprint(ctx context.Context) (string, error)
}

// Retrier retries transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Observer receives pipeline events for metrics.
type Observer interface {
	RunCompleted(run *domain.AssemblyRun, violations []domain.ViolationCount, elapsed time.Duration)
	CacheLookup(hit bool)
	QualityChecked(category, status string)
}
