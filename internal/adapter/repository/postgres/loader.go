package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres/generated"
)

// ErrRowCountMismatch is returned when the tables do not hold the rows that
// were copied into them.
var ErrRowCountMismatch = errors.New("loaded row count does not match source")

// LoadReport lists the rows copied into each event-store table.
type LoadReport struct {
	Users        int64 `json:"users"`
	Transactions int64 `json:"transactions"`
	Loans        int64 `json:"loans"`
	Assignments  int64 `json:"assignments"`
	// SkippedDuplicates counts records dropped because their primary key was
	// already copied.
	SkippedDuplicates int `json:"skipped_duplicates"`
}

// Loader bulk-loads a dataset into the event-store tables.
type Loader struct {
	pool   pgxPool
	logger zerolog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(pool *pgxpool.Pool, logger zerolog.Logger) *Loader {
	return newLoader(pool, logger)
}

func newLoader(pool pgxPool, logger zerolog.Logger) *Loader {
	return &Loader{pool: pool, logger: logger}
}

// Load replaces the contents of the event-store tables with ds using COPY,
// then verifies the row counts. The first record wins on a duplicate key.
func (l *Loader) Load(ctx context.Context, ds *domain.Dataset) (*LoadReport, error) {
	users, dupUsers := uniqueBy(ds.Users, func(u *domain.User) string { return u.ID })
	txns, dupTxns := uniqueBy(ds.Transactions, func(t *domain.Transaction) string { return t.ID })
	loans, dupLoans := uniqueBy(ds.Loans, func(l *domain.Loan) string { return l.ID })
	assignments, dupAssignments := uniqueBy(ds.Assignments, func(a *domain.ExperimentAssignment) string { return a.ID })

	report := &LoadReport{SkippedDuplicates: dupUsers + dupTxns + dupLoans + dupAssignments}

	err := inTx(ctx, l.pool, func(q *generated.Queries) error {
		if err := q.TruncateEventTables(ctx); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		var err error
		if report.Users, err = q.CopyUsers(ctx, usersToParams(users)); err != nil {
			return fmt.Errorf("copy users: %w", err)
		}
		if report.Transactions, err = q.CopyTransactions(ctx, transactionsToParams(txns)); err != nil {
			return fmt.Errorf("copy transactions: %w", err)
		}
		if report.Loans, err = q.CopyLoans(ctx, loansToParams(loans)); err != nil {
			return fmt.Errorf("copy loans: %w", err)
		}
		if report.Assignments, err = q.CopyAssignments(ctx, assignmentsToParams(assignments)); err != nil {
			return fmt.Errorf("copy assignments: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if report.SkippedDuplicates > 0 {
		l.logger.Warn().Int("skipped", report.SkippedDuplicates).Msg("duplicate primary keys skipped during load")
	}

	if err := l.verify(ctx, users, txns, loans, assignments); err != nil {
		return report, err
	}

	l.logger.Info().
		Int64("users", report.Users).
		Int64("transactions", report.Transactions).
		Int64("loans", report.Loans).
		Int64("assignments", report.Assignments).
		Msg("event store loaded")

	return report, nil
}

func (l *Loader) verify(ctx context.Context, users []*domain.User, txns []*domain.Transaction, loans []*domain.Loan, assignments []*domain.ExperimentAssignment) error {
	counts, err := generated.New(l.pool).CountEventRows(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}

	checks := []struct {
		table    string
		expected int
		actual   int64
	}{
		{"users", len(users), counts.Users},
		{"transactions", len(txns), counts.Transactions},
		{"loans", len(loans), counts.Loans},
		{"experiment_assignments", len(assignments), counts.Assignments},
	}

	var errs []error
	for _, c := range checks {
		if int64(c.expected) != c.actual {
			errs = append(errs, fmt.Errorf("%w: %s expected %d, found %d", ErrRowCountMismatch, c.table, c.expected, c.actual))
		}
	}

	return errors.Join(errs...)
}

func uniqueBy[T any](items []T, key func(T) string) ([]T, int) {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out, len(items) - len(out)
}

func usersToParams(users []*domain.User) []generated.CopyUsersParams {
	params := make([]generated.CopyUsersParams, 0, len(users))
	for _, u := range users {
		params = append(params, generated.CopyUsersParams{
			ID:                 u.ID,
			SignupAt:           timeToPgTimestamptz(u.SignupAt),
			BankLinkedAt:       optTimeToPgTimestamptz(u.BankLinkedAt),
			Province:           u.Province,
			DeviceOs:           u.DeviceOS,
			AcquisitionChannel: u.AcquisitionChannel,
			PayrollFrequency:   u.PayrollFrequency,
			FicoBand:           u.FicoBand,
			BaselineRiskScore:  u.BaselineRiskScore,
		})
	}
	return params
}

func transactionsToParams(txns []*domain.Transaction) []generated.CopyTransactionsParams {
	params := make([]generated.CopyTransactionsParams, 0, len(txns))
	for _, t := range txns {
		params = append(params, generated.CopyTransactionsParams{
			ID:           t.ID,
			Seq:          t.Seq,
			UserID:       t.UserID,
			PostedAt:     timeToPgTimestamptz(t.PostedAt),
			Amount:       decimalToNumeric(t.Amount),
			Direction:    string(t.Direction),
			Mcc:          t.MCC,
			Category:     t.Category,
			BalanceAfter: decimalToNumeric(t.BalanceAfter),
			IsPayroll:    t.IsPayroll,
		})
	}
	return params
}

func loansToParams(loans []*domain.Loan) []generated.CopyLoansParams {
	params := make([]generated.CopyLoansParams, 0, len(loans))
	for _, l := range loans {
		params = append(params, generated.CopyLoansParams{
			ID:                 l.ID,
			UserID:             l.UserID,
			RequestedAt:        timeToPgTimestamptz(l.RequestedAt),
			ApprovedAt:         optTimeToPgTimestamptz(l.ApprovedAt),
			DisbursedAt:        optTimeToPgTimestamptz(l.DisbursedAt),
			DueDate:            optTimeToPgTimestamptz(l.DueDate),
			RepaidAt:           optTimeToPgTimestamptz(l.RepaidAt),
			Amount:             decimalToNumeric(l.Amount),
			Fee:                decimalToNumeric(l.Fee),
			TipAmount:          decimalToNumeric(l.TipAmount),
			InstantTransferFee: decimalToNumeric(l.InstantTransferFee),
			Status:             string(l.Status),
			LateDays:           int32(l.LateDays),
			ChargeoffFlag:      l.ChargeOff,
			AutopayEnrolled:    l.AutopayEnrolled,
			PrincipalRepaid:    decimalToNumeric(l.PrincipalRepaid),
			WriteoffAmount:     decimalToNumeric(l.WriteoffAmount),
			PriceVariant:       l.PriceVariant,
			TipVariant:         l.TipVariant,
		})
	}
	return params
}

func assignmentsToParams(assignments []*domain.ExperimentAssignment) []generated.CopyAssignmentsParams {
	params := make([]generated.CopyAssignmentsParams, 0, len(assignments))
	for _, a := range assignments {
		params = append(params, generated.CopyAssignmentsParams{
			ID:             a.ID,
			UserID:         a.UserID,
			ExperimentName: a.ExperimentName,
			Variant:        a.Variant,
			AssignedAt:     timeToPgTimestamptz(a.AssignedAt),
		})
	}
	return params
}
