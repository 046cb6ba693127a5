package usecase

import "time"

const (
	// DefaultFeatureCacheTTL is how long assembled rows stay in the cache.
	DefaultFeatureCacheTTL = 6 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is the stored value of a key whose first request
	// has not finished.
	IdempotencyPending = "processing"

	// persistTimeout bounds writing one run to the feature store.
	persistTimeout = 2 * time.Minute
)
