package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

const (
	featureKeyPrefix = "features:"
	currentKey       = featureKeyPrefix + "current"
	// pipelineChunk bounds the commands buffered per round trip.
	pipelineChunk = 500
)

// FeatureCache implements usecase.FeatureCache. Rows are namespaced by the
// snapshot fingerprint, so a new snapshot never serves stale rows.
type FeatureCache struct {
	client *redis.Client
}

// NewFeatureCache creates a new FeatureCache.
func NewFeatureCache(client *redis.Client) *FeatureCache {
	return &FeatureCache{client: client}
}

func rowKey(fingerprint, loanID string) string {
	return featureKeyPrefix + fingerprint + ":" + loanID
}

// Get returns the cached row, or (nil, nil) on a miss.
func (c *FeatureCache) Get(ctx context.Context, fingerprint, loanID string) (*domain.FeatureRow, error) {
	data, err := c.client.Get(ctx, rowKey(fingerprint, loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var row domain.FeatureRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode cached row %s: %w", loanID, err)
	}

	return &row, nil
}

// Put stores rows under fingerprint and marks it current once every row is
// written.
func (c *FeatureCache) Put(ctx context.Context, fingerprint string, rows []*domain.FeatureRow, ttl time.Duration) error {
	for start := 0; start < len(rows); start += pipelineChunk {
		end := min(start+pipelineChunk, len(rows))

		_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, row := range rows[start:end] {
				data, err := json.Marshal(row)
				if err != nil {
					return fmt.Errorf("encode row %s: %w", row.LoanID, err)
				}
				pipe.Set(ctx, rowKey(fingerprint, row.LoanID), data, ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return c.client.Set(ctx, currentKey, fingerprint, ttl).Err()
}

// CurrentFingerprint returns the fingerprint of the last completed Put, or "".
func (c *FeatureCache) CurrentFingerprint(ctx context.Context) (string, error) {
	fp, err := c.client.Get(ctx, currentKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return fp, err
}

// NullFeatureCache never hits. It backs deployments without Redis.
type NullFeatureCache struct{}

// NewNullFeatureCache creates a new NullFeatureCache.
func NewNullFeatureCache() *NullFeatureCache {
	return &NullFeatureCache{}
}

func (NullFeatureCache) Get(ctx context.Context, fingerprint, loanID string) (*domain.FeatureRow, error) {
	return nil, nil
}

func (NullFeatureCache) Put(ctx context.Context, fingerprint string, rows []*domain.FeatureRow, ttl time.Duration) error {
	return nil
}

func (NullFeatureCache) CurrentFingerprint(ctx context.Context) (string, error) {
	return "", nil
}
