package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres/generated"
)

// FeatureStore implements usecase.FeatureStore. Rows are stored as jsonb
// keyed by loan id; a later run overwrites earlier rows for the same loan.
type FeatureStore struct {
	pool    pgxPool
	queries *generated.Queries
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(pool *pgxpool.Pool) *FeatureStore {
	return newFeatureStore(pool)
}

func newFeatureStore(pool pgxPool) *FeatureStore {
	return &FeatureStore{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// SaveRun writes the run summary and upserts its rows in one transaction.
func (s *FeatureStore) SaveRun(ctx context.Context, run *domain.AssemblyRun, rows []*domain.FeatureRow) error {
	return inTx(ctx, s.pool, func(q *generated.Queries) error {
		if err := q.InsertAssemblyRun(ctx, runToParams(run)); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, row := range rows {
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode row %s: %w", row.LoanID, err)
			}

			if err := q.UpsertFeatureRow(ctx, generated.UpsertFeatureRowParams{
				LoanID:      row.LoanID,
				UserID:      row.UserID,
				RunID:       run.ID,
				Fingerprint: run.Fingerprint,
				AnchorAt:    timeToPgTimestamptz(row.AnchorAt),
				Default30d:  int16(row.Default30d),
				Payload:     payload,
			}); err != nil {
				return fmt.Errorf("upsert row %s: %w", row.LoanID, err)
			}
		}

		return nil
	})
}

// GetRow retrieves the latest feature row for a loan.
func (s *FeatureStore) GetRow(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
	payload, err := s.queries.GetFeatureRow(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeatureRowNotFound
		}

		return nil, err
	}

	return decodeRow(payload)
}

// ListByUser lists a user's feature rows ordered by anchor time.
func (s *FeatureStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.FeatureRow, error) {
	payloads, err := s.queries.ListFeatureRowsByUser(ctx, generated.ListFeatureRowsByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.FeatureRow, 0, len(payloads))
	for _, p := range payloads {
		row, err := decodeRow(p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// GetRun retrieves a run summary by ID.
func (s *FeatureStore) GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error) {
	row, err := s.queries.GetAssemblyRun(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}

		return nil, err
	}

	return rowToRun(row), nil
}

// LatestRun retrieves the most recently finished run.
func (s *FeatureStore) LatestRun(ctx context.Context) (*domain.AssemblyRun, error) {
	row, err := s.queries.GetLatestAssemblyRun(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}

		return nil, err
	}

	return rowToRun(row), nil
}

func decodeRow(payload []byte) (*domain.FeatureRow, error) {
	var row domain.FeatureRow
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, fmt.Errorf("decode feature row: %w", err)
	}
	return &row, nil
}

func runToParams(run *domain.AssemblyRun) generated.InsertAssemblyRunParams {
	return generated.InsertAssemblyRunParams{
		ID:                   run.ID,
		Fingerprint:          run.Fingerprint,
		Source:               run.Source,
		StartedAt:            timeToPgTimestamptz(run.StartedAt),
		FinishedAt:           timeToPgTimestamptz(run.FinishedAt),
		RowsEmitted:          int32(run.RowsEmitted),
		SkippedMissingAnchor: int32(run.SkippedNoAnchor),
		SkippedUnlabeled:     int32(run.SkippedUnlabeled),
		FlaggedRows:          int32(run.FlaggedRows),
		ViolationCount:       int32(run.ViolationCount),
		LabeledLoanCount:     int32(run.LabeledLoanCount),
		DefaultedLoanCount:   int32(run.DefaultedLoanCount),
	}
}

func rowToRun(row generated.AssemblyRun) *domain.AssemblyRun {
	return &domain.AssemblyRun{
		ID:                 row.ID,
		Fingerprint:        row.Fingerprint,
		Source:             row.Source,
		StartedAt:          row.StartedAt.Time.UTC(),
		FinishedAt:         row.FinishedAt.Time.UTC(),
		RowsEmitted:        int(row.RowsEmitted),
		SkippedNoAnchor:    int(row.SkippedMissingAnchor),
		SkippedUnlabeled:   int(row.SkippedUnlabeled),
		FlaggedRows:        int(row.FlaggedRows),
		ViolationCount:     int(row.ViolationCount),
		LabeledLoanCount:   int(row.LabeledLoanCount),
		DefaultedLoanCount: int(row.DefaultedLoanCount),
	}
}
